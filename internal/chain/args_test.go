package chain

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func abiType(t *testing.T, s string) abi.Type {
	t.Helper()
	typ, err := abi.NewType(s, "", nil)
	require.NoError(t, err)
	return typ
}

func TestCoerceArg(t *testing.T) {
	t.Run("address", func(t *testing.T) {
		v, err := coerceArg(abiType(t, "address"), "0x6B175474E89094C44Da98b954EedeAC495271d0F")
		require.NoError(t, err)
		assert.Equal(t, common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F"), v)

		_, err = coerceArg(abiType(t, "address"), "0x123")
		assert.Error(t, err)
	})

	t.Run("uint256 decimal and hex", func(t *testing.T) {
		v, err := coerceArg(abiType(t, "uint256"), "1000000000000000000")
		require.NoError(t, err)
		assert.Equal(t, new(big.Int).SetUint64(1000000000000000000), v)

		v, err = coerceArg(abiType(t, "uint256"), "0xff")
		require.NoError(t, err)
		assert.Equal(t, big.NewInt(255), v)

		_, err = coerceArg(abiType(t, "uint256"), "-1")
		assert.Error(t, err, "negative value for unsigned type")
	})

	t.Run("small integer widths get native types", func(t *testing.T) {
		v, err := coerceArg(abiType(t, "uint8"), "255")
		require.NoError(t, err)
		assert.Equal(t, uint8(255), v)

		_, err = coerceArg(abiType(t, "uint8"), "256")
		assert.Error(t, err, "overflow must be rejected")

		v, err = coerceArg(abiType(t, "int64"), "-42")
		require.NoError(t, err)
		assert.Equal(t, int64(-42), v)
	})

	t.Run("signed boundaries", func(t *testing.T) {
		cases := []struct {
			typ  string
			raw  string
			want any
			ok   bool
		}{
			{"int8", "127", int8(127), true},
			{"int8", "128", nil, false},
			{"int8", "-128", int8(-128), true},
			{"int8", "-129", nil, false},
			{"int16", "32767", int16(32767), true},
			{"int16", "32768", nil, false},
			{"int16", "-32768", int16(-32768), true},
			{"int16", "-32769", nil, false},
			{"int64", "9223372036854775807", int64(9223372036854775807), true},
			{"int64", "9223372036854775808", nil, false},
			{"int64", "-9223372036854775808", int64(-9223372036854775808), true},
			{"int64", "-9223372036854775809", nil, false},
		}
		for _, tc := range cases {
			t.Run(tc.typ+" "+tc.raw, func(t *testing.T) {
				v, err := coerceArg(abiType(t, tc.typ), tc.raw)
				if !tc.ok {
					require.Error(t, err, "out-of-range value must not wrap sign")
					return
				}
				require.NoError(t, err)
				assert.Equal(t, tc.want, v)
			})
		}
	})

	t.Run("int256 boundaries", func(t *testing.T) {
		one := big.NewInt(1)
		max := new(big.Int).Sub(new(big.Int).Lsh(one, 255), one)
		min := new(big.Int).Neg(new(big.Int).Lsh(one, 255))

		v, err := coerceArg(abiType(t, "int256"), max.String())
		require.NoError(t, err)
		assert.Equal(t, max, v)

		v, err = coerceArg(abiType(t, "int256"), min.String())
		require.NoError(t, err)
		assert.Equal(t, min, v)

		_, err = coerceArg(abiType(t, "int256"), new(big.Int).Add(max, one).String())
		assert.Error(t, err)
		_, err = coerceArg(abiType(t, "int256"), new(big.Int).Sub(min, one).String())
		assert.Error(t, err)
	})

	t.Run("bool", func(t *testing.T) {
		v, err := coerceArg(abiType(t, "bool"), "true")
		require.NoError(t, err)
		assert.Equal(t, true, v)

		_, err = coerceArg(abiType(t, "bool"), "yes")
		assert.Error(t, err)
	})

	t.Run("string", func(t *testing.T) {
		v, err := coerceArg(abiType(t, "string"), "hello")
		require.NoError(t, err)
		assert.Equal(t, "hello", v)
	})

	t.Run("bytes", func(t *testing.T) {
		v, err := coerceArg(abiType(t, "bytes"), "0xdeadbeef")
		require.NoError(t, err)
		assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, v)
	})

	t.Run("bytes32 enforces length", func(t *testing.T) {
		h := common.HexToHash("0x0102030000000000000000000000000000000000000000000000000000000000")
		v, err := coerceArg(abiType(t, "bytes32"), h.Hex())
		require.NoError(t, err)
		assert.Equal(t, [32]byte(h), v)

		_, err = coerceArg(abiType(t, "bytes32"), "0x0102")
		assert.Error(t, err)
	})

	t.Run("slice of uint256", func(t *testing.T) {
		v, err := coerceArg(abiType(t, "uint256[]"), "[1, 2, 3]")
		require.NoError(t, err)
		assert.Equal(t, []*big.Int{big.NewInt(1), big.NewInt(2), big.NewInt(3)}, v)
	})

	t.Run("fixed array enforces element count", func(t *testing.T) {
		v, err := coerceArg(abiType(t, "address[2]"), "[0x6B175474E89094C44Da98b954EedeAC495271d0F,0x6B175474E89094C44Da98b954EedeAC495271d0F]")
		require.NoError(t, err)
		assert.IsType(t, [2]common.Address{}, v)

		_, err = coerceArg(abiType(t, "address[2]"), "[0x6B175474E89094C44Da98b954EedeAC495271d0F]")
		assert.Error(t, err)
	})
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "123", formatValue(big.NewInt(123)))
	assert.Equal(t, "true", formatValue(true))
	assert.Equal(t, "plain", formatValue("plain"))
	assert.Equal(t, "0x6B175474E89094C44Da98b954EedeAC495271d0F",
		formatValue(common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F")))
	assert.Equal(t, "0xdead", formatValue([]byte{0xde, 0xad}))
	assert.Equal(t, "[1,2]", formatValue([]*big.Int{big.NewInt(1), big.NewInt(2)}))
}
