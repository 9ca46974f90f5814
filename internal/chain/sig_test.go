package chain

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSignature(t *testing.T) {
	t.Run("no arguments", func(t *testing.T) {
		m, err := ParseSignature("totalSupply()")
		require.NoError(t, err)
		assert.Equal(t, "totalSupply", m.Name)
		assert.Empty(t, m.Inputs)
		assert.Empty(t, m.Outputs)
		assert.Equal(t, "totalSupply()", m.Canonical())
		assert.Equal(t, "0x18160ddd", hexutil.Encode(m.Selector()))
	})

	t.Run("arguments and return types", func(t *testing.T) {
		m, err := ParseSignature("balanceOf(address)(uint256)")
		require.NoError(t, err)
		require.Len(t, m.Inputs, 1)
		require.Len(t, m.Outputs, 1)
		assert.Equal(t, "0x70a08231", hexutil.Encode(m.Selector()))
	})

	t.Run("selector uses canonical argument types", func(t *testing.T) {
		m, err := ParseSignature("transfer(address, uint256)")
		require.NoError(t, err)
		assert.Equal(t, "transfer(address,uint256)", m.Canonical())
		assert.Equal(t, "0xa9059cbb", hexutil.Encode(m.Selector()))
	})

	t.Run("rejects malformed descriptors", func(t *testing.T) {
		for _, bad := range []string{
			"",
			"()",
			"noparens",
			"f(address",
			"f(address)(bool)(extra)",
			"f((uint256,address))",
			"f(notatype)",
		} {
			_, err := ParseSignature(bad)
			assert.Error(t, err, "descriptor %q", bad)
		}
	})
}

func TestMethodPack(t *testing.T) {
	m, err := ParseSignature("transfer(address,uint256)")
	require.NoError(t, err)

	data, err := m.Pack([]string{"0x6B175474E89094C44Da98b954EedeAC495271d0F", "1"})
	require.NoError(t, err)

	require.Len(t, data, 4+32+32)
	assert.Equal(t, "0xa9059cbb", hexutil.Encode(data[:4]))
	assert.Equal(t,
		common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F"),
		common.BytesToAddress(data[4:36]))
	assert.Equal(t, byte(1), data[len(data)-1])

	t.Run("argument count mismatch", func(t *testing.T) {
		_, err := m.Pack([]string{"0x6B175474E89094C44Da98b954EedeAC495271d0F"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expects 2 arguments")
	})

	t.Run("bad argument", func(t *testing.T) {
		_, err := m.Pack([]string{"not-an-address", "1"})
		require.Error(t, err)
	})
}

func TestMethodUnpack(t *testing.T) {
	t.Run("declared return types decode to display values", func(t *testing.T) {
		m, err := ParseSignature("result()(uint256,address,bool)")
		require.NoError(t, err)

		encoded, err := m.Outputs.Pack(
			big.NewInt(12345),
			common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F"),
			true,
		)
		require.NoError(t, err)

		out, err := m.Unpack(encoded)
		require.NoError(t, err)
		assert.Equal(t, "12345,0x6B175474E89094C44Da98b954EedeAC495271d0F,true", out)
	})

	t.Run("no return types yields raw hex", func(t *testing.T) {
		m, err := ParseSignature("opaque()")
		require.NoError(t, err)
		out, err := m.Unpack([]byte{0xde, 0xad})
		require.NoError(t, err)
		assert.Equal(t, "0xdead", out)
	})

	t.Run("truncated data errors", func(t *testing.T) {
		m, err := ParseSignature("f()(uint256)")
		require.NoError(t, err)
		_, err = m.Unpack([]byte{0x01})
		assert.Error(t, err)
	})
}
