package chain

import (
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// coerceArg converts a rendered string parameter into the Go value the ABI
// packer expects for the given type.
func coerceArg(t abi.Type, raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	switch t.T {
	case abi.AddressTy:
		if !common.IsHexAddress(raw) {
			return nil, fmt.Errorf("%q is not a hex address", raw)
		}
		return common.HexToAddress(raw), nil

	case abi.UintTy, abi.IntTy:
		return coerceInteger(t, raw)

	case abi.BoolTy:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%q is not a boolean", raw)
		}
		return b, nil

	case abi.StringTy:
		return raw, nil

	case abi.BytesTy:
		b, err := hexutil.Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("%q is not hex bytes: %w", raw, err)
		}
		return b, nil

	case abi.FixedBytesTy:
		b, err := hexutil.Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("%q is not hex bytes: %w", raw, err)
		}
		if len(b) != t.Size {
			return nil, fmt.Errorf("bytes%d value has %d bytes", t.Size, len(b))
		}
		arr := reflect.New(t.GetType()).Elem()
		reflect.Copy(arr, reflect.ValueOf(b))
		return arr.Interface(), nil

	case abi.SliceTy, abi.ArrayTy:
		return coerceList(t, raw)

	default:
		return nil, fmt.Errorf("unsupported ABI type %s", t.String())
	}
}

// coerceInteger parses decimal or 0x-prefixed hex into the exact Go
// integer type the packer requires for this bit width.
func coerceInteger(t abi.Type, raw string) (any, error) {
	base := 10
	digits := raw
	neg := false
	if strings.HasPrefix(digits, "-") {
		neg = true
		digits = digits[1:]
	}
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		base = 16
		digits = digits[2:]
	}
	n, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return nil, fmt.Errorf("%q is not an integer", raw)
	}
	if neg {
		n.Neg(n)
	}
	if t.T == abi.UintTy {
		if n.Sign() < 0 {
			return nil, fmt.Errorf("%q is negative for %s", raw, t.String())
		}
		if n.BitLen() > t.Size {
			return nil, fmt.Errorf("%q overflows %s", raw, t.String())
		}
	} else {
		// Signed range is [-2^(size-1), 2^(size-1)-1]; a plain bit-length
		// test would let boundary values wrap sign in the packed calldata.
		limit := new(big.Int).Lsh(big.NewInt(1), uint(t.Size-1))
		max := new(big.Int).Sub(limit, big.NewInt(1))
		min := new(big.Int).Neg(limit)
		if n.Cmp(min) < 0 || n.Cmp(max) > 0 {
			return nil, fmt.Errorf("%q overflows %s", raw, t.String())
		}
	}

	rt := t.GetType()
	switch rt.Kind() {
	case reflect.Ptr:
		return n, nil
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return reflect.ValueOf(n.Uint64()).Convert(rt).Interface(), nil
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return reflect.ValueOf(n.Int64()).Convert(rt).Interface(), nil
	default:
		return nil, fmt.Errorf("unsupported integer width %s", t.String())
	}
}

// coerceList parses "[a, b, c]" (brackets optional) into a typed slice or
// array of the element type.
func coerceList(t abi.Type, raw string) (any, error) {
	inner := strings.TrimSpace(raw)
	inner = strings.TrimPrefix(inner, "[")
	inner = strings.TrimSuffix(inner, "]")

	var parts []string
	if strings.TrimSpace(inner) != "" {
		parts = strings.Split(inner, ",")
	}
	if t.T == abi.ArrayTy && len(parts) != t.Size {
		return nil, fmt.Errorf("array of %d elements expected, got %d", t.Size, len(parts))
	}

	var out reflect.Value
	if t.T == abi.SliceTy {
		out = reflect.MakeSlice(t.GetType(), len(parts), len(parts))
	} else {
		out = reflect.New(t.GetType()).Elem()
	}
	for i, p := range parts {
		v, err := coerceArg(*t.Elem, p)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out.Index(i).Set(reflect.ValueOf(v))
	}
	return out.Interface(), nil
}

// ParseWei parses a native-token amount in the smallest unit, given as a
// decimal or 0x-prefixed hex string.
func ParseWei(raw string) (*big.Int, error) {
	s := strings.TrimSpace(raw)
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		base = 16
		s = s[2:]
	}
	n, ok := new(big.Int).SetString(s, base)
	if !ok || n.Sign() < 0 {
		return nil, fmt.Errorf("%q is not a valid amount", raw)
	}
	return n, nil
}

// formatValue renders a decoded ABI value for step output.
func formatValue(v any) string {
	switch x := v.(type) {
	case *big.Int:
		return x.String()
	case common.Address:
		return x.Hex()
	case common.Hash:
		return x.Hex()
	case []byte:
		return hexutil.Encode(x)
	case bool:
		return strconv.FormatBool(x)
	case string:
		return x
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			b := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(b), rv)
			return hexutil.Encode(b)
		}
	case reflect.Slice:
		parts := make([]string, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			parts[i] = formatValue(rv.Index(i).Interface())
		}
		return "[" + strings.Join(parts, ",") + "]"
	}
	return fmt.Sprintf("%v", v)
}
