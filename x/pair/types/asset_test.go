package types_test

import (
	"math/big"
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/pawswap/pkg/wide"
	keepertest "github.com/paw-chain/pawswap/testutil/keeper"
	"github.com/paw-chain/pawswap/x/pair/types"
	"github.com/paw-chain/pawswap/x/shared/contract"
	tokentypes "github.com/paw-chain/pawswap/x/token/types"
)

func overMaxAmount() *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), wide.AmountBits+2)
}

func TestAssetValidate(t *testing.T) {
	token := types.TokenAsset(contract.Callable{Address: "token"})

	tests := []struct {
		name    string
		asset   types.Asset
		wantErr error
	}{
		{"native", types.NewAsset(types.NativeAsset("upaw"), math.NewUint(10)), nil},
		{"token at the bound", types.NewAsset(token, wide.MaxAmount), nil},
		{"missing amount", types.Asset{Info: token}, contract.ErrInvalidRequest},
		{"empty info", types.NewAsset(types.AssetInfo{}, math.NewUint(1)), types.ErrInvalidAssets},
		{"wider than an amount", types.NewAsset(types.NativeAsset("upaw"), math.NewUintFromBigInt(overMaxAmount())), wide.ErrOverflow},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.asset.Validate()
			if tc.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestQueryPool(t *testing.T) {
	q := keepertest.NewMockQuerier()
	q.SetBalance("pair", "upaw", math.NewInt(500))
	q.SetBalance("whale", "upaw", math.NewIntFromBigInt(overMaxAmount()))
	q.Respond("token", tokentypes.BalanceResponse{Amount: math.NewUint(700)})
	q.Respond("wide-token", tokentypes.BalanceResponse{Amount: math.NewUintFromBigInt(overMaxAmount())})

	native := types.NativeAsset("upaw")
	pool, err := native.QueryPool(q, "pair")
	require.NoError(t, err)
	require.Equal(t, "500", pool.String())

	pool, err = types.TokenAsset(contract.Callable{Address: "token"}).QueryPool(q, "pair")
	require.NoError(t, err)
	require.Equal(t, "700", pool.String())

	_, err = native.QueryPool(q, "whale")
	require.ErrorIs(t, err, wide.ErrOverflow)

	_, err = types.TokenAsset(contract.Callable{Address: "wide-token"}).QueryPool(q, "pair")
	require.ErrorIs(t, err, wide.ErrOverflow)
}
