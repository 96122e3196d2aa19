package bond_test

import (
	"context"
	"testing"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/elys-network/bondstake/internal/app"
	"github.com/elys-network/bondstake/internal/bond"
	"github.com/elys-network/bondstake/internal/testutil"
	"github.com/elys-network/bondstake/internal/types"
)

type BondTestSuite struct {
	suite.Suite
	app   *app.App
	clock *testutil.Clock
	ctx   context.Context
}

func TestBondTestSuite(t *testing.T) {
	suite.Run(t, new(BondTestSuite))
}

func (s *BondTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.app, s.clock = testutil.NewApp(s.T(), testutil.DefaultGenesis())
}

func (s *BondTestSuite) deposit(sender string, amount int64, maxPrice int64) error {
	_, err := s.app.Execute(s.ctx, sender, testutil.Coins(testutil.Principal, amount), types.DepositMsg{
		MaxPrice: sdkmath.LegacyNewDec(maxPrice),
	})
	return err
}

func (s *BondTestSuite) redeem(sender string, stake bool) error {
	_, err := s.app.Execute(s.ctx, sender, nil, types.RedeemMsg{Stake: stake})
	return err
}

func (s *BondTestSuite) position(addr string) (types.Position, bool) {
	ctx, err := s.app.QueryContext(s.ctx)
	s.Require().NoError(err)
	pos, found, err := s.app.Bond.GetPosition(ctx, addr)
	s.Require().NoError(err)
	return pos, found
}

func (s *BondTestSuite) terms() types.Terms {
	ctx, err := s.app.QueryContext(s.ctx)
	s.Require().NoError(err)
	terms, err := s.app.Bond.GetTerms(ctx)
	s.Require().NoError(err)
	return terms
}

func (s *BondTestSuite) query(name string, req types.QueryRequest) any {
	req.Contract = types.BondModuleName
	req.Query = name
	res, err := s.app.Query(s.ctx, req)
	s.Require().NoError(err)
	return res
}

func (s *BondTestSuite) updateTerms(mutate func(*types.Terms)) {
	terms := s.terms()
	mutate(&terms)
	_, err := s.app.Execute(s.ctx, testutil.Admin, nil, types.UpdateTermsMsg{Terms: terms})
	s.Require().NoError(err)
}

func (s *BondTestSuite) TestFirstDepositAtMinimumPrice() {
	s.Require().NoError(s.deposit(testutil.Alice, 10_000, 2))

	pos, found := s.position(testutil.Alice)
	s.Require().True(found)
	s.Equal("5000", pos.Payout.String())
	s.Equal(uint64(3600), pos.VestingTimeLeft)
	s.True(pos.LastTime.Equal(testutil.GenesisTime))
	s.True(pos.PricePaid.Equal(sdkmath.LegacyNewDec(5)), pos.PricePaid.String())

	s.Equal(int64(5_000), testutil.Balance(s.T(), s.app, s.app.Bond.Address(), testutil.BaseDenom).Int64())
	s.Equal(int64(10_000), testutil.Balance(s.T(), s.app, testutil.Treasury, testutil.Principal).Int64())
	s.Equal(int64(90_000), testutil.Balance(s.T(), s.app, testutil.Alice, testutil.Principal).Int64())
	s.Equal(int64(1_005_000), testutil.Supply(s.T(), s.app, testutil.BaseDenom).Int64())

	debt := s.query(types.QueryCurrentDebt, types.QueryRequest{}).(sdkmath.Int)
	s.Equal("5000", debt.String())
}

func (s *BondTestSuite) TestSecondDepositPaysHigherPrice() {
	s.Require().NoError(s.deposit(testutil.Alice, 10_000, 2))
	s.clock.Advance(1)

	price := s.query(types.QueryBondPrice, types.QueryRequest{}).(sdkmath.LegacyDec)
	s.True(price.GT(sdkmath.LegacyNewDec(4)), price.String())
	s.True(price.LT(sdkmath.LegacyNewDec(5)), price.String())

	s.Require().NoError(s.deposit(testutil.Alice, 10_000, 10))

	pos, _ := s.position(testutil.Alice)
	s.Equal("7010", pos.Payout.String())
	s.Equal(uint64(3600), pos.VestingTimeLeft)
	s.True(pos.LastTime.Equal(testutil.GenesisTime.Add(time.Second)))

	debt := s.query(types.QueryCurrentDebt, types.QueryRequest{}).(sdkmath.Int)
	s.Equal("7009", debt.String())
	// Floor relief is off, the minimum price survives a non binding floor.
	s.True(s.terms().MinimumPrice.Equal(sdkmath.LegacyNewDec(2)))
}

func (s *BondTestSuite) TestPercentVestedHalfway() {
	s.Require().NoError(s.deposit(testutil.Alice, 10_000, 2))
	s.clock.Advance(1800)

	percent := s.query(types.QueryPercentVestedFor, types.QueryRequest{Address: testutil.Alice}).(sdkmath.LegacyDec)
	s.True(percent.Equal(sdkmath.LegacyNewDecWithPrec(5, 1)), percent.String())

	pending := s.query(types.QueryPendingPayoutFor, types.QueryRequest{Address: testutil.Alice}).(sdkmath.Int)
	s.Equal("2500", pending.String())

	info := s.query(types.QueryBondInfo, types.QueryRequest{Address: testutil.Alice}).(types.BondInfoResponse)
	s.Equal("5000", info.Payout.String())
	s.Equal("2500", info.PendingPayout.String())
}

func (s *BondTestSuite) TestPercentVestedIsClampedToOne() {
	s.Require().NoError(s.deposit(testutil.Alice, 10_000, 2))
	s.clock.Advance(3600)

	percent := s.query(types.QueryPercentVestedFor, types.QueryRequest{Address: testutil.Alice}).(sdkmath.LegacyDec)
	s.True(percent.Equal(sdkmath.LegacyOneDec()), percent.String())

	s.clock.Advance(3600)
	percent = s.query(types.QueryPercentVestedFor, types.QueryRequest{Address: testutil.Alice}).(sdkmath.LegacyDec)
	s.True(percent.Equal(sdkmath.LegacyOneDec()), percent.String())

	info := s.query(types.QueryBondInfo, types.QueryRequest{Address: testutil.Alice}).(types.BondInfoResponse)
	s.True(info.PercentVested.Equal(sdkmath.LegacyOneDec()), info.PercentVested.String())
	s.Equal("5000", info.PendingPayout.String())
}

func (s *BondTestSuite) TestRedeemVestsLinearly() {
	s.Require().NoError(s.deposit(testutil.Alice, 10_000, 2))
	s.clock.Advance(1801)

	s.Require().NoError(s.redeem(testutil.Alice, false))
	s.Equal(int64(2501), testutil.Balance(s.T(), s.app, testutil.Alice, testutil.BaseDenom).Int64())
	pos, found := s.position(testutil.Alice)
	s.Require().True(found)
	s.Equal("2499", pos.Payout.String())
	s.Equal(uint64(1799), pos.VestingTimeLeft)

	s.Require().ErrorIs(s.redeem(testutil.Alice, false), types.ErrNothingToRedeem)

	s.clock.Advance(1799)
	s.Require().NoError(s.redeem(testutil.Alice, false))
	s.Equal(int64(5000), testutil.Balance(s.T(), s.app, testutil.Alice, testutil.BaseDenom).Int64())
	s.Equal(int64(0), testutil.Balance(s.T(), s.app, s.app.Bond.Address(), testutil.BaseDenom).Int64())

	_, found = s.position(testutil.Alice)
	s.False(found)
	s.Require().ErrorIs(s.redeem(testutil.Alice, false), types.ErrNoPosition)
}

func (s *BondTestSuite) TestRedeemForRecipient() {
	s.Require().NoError(s.deposit(testutil.Alice, 10_000, 2))
	s.clock.Advance(3600)

	_, err := s.app.Execute(s.ctx, testutil.Bob, nil, types.RedeemMsg{Recipient: testutil.Alice})
	s.Require().NoError(err)
	s.Equal(int64(5000), testutil.Balance(s.T(), s.app, testutil.Alice, testutil.BaseDenom).Int64())
	s.True(testutil.Balance(s.T(), s.app, testutil.Bob, testutil.BaseDenom).IsZero())
}

func (s *BondTestSuite) TestRedeemAndStake() {
	s.Require().NoError(s.deposit(testutil.Alice, 10_000, 2))
	s.clock.Advance(3600)

	s.Require().NoError(s.redeem(testutil.Alice, true))
	s.True(testutil.Balance(s.T(), s.app, testutil.Alice, testutil.BaseDenom).IsZero())
	s.Equal(int64(5000), testutil.Balance(s.T(), s.app, testutil.Alice, testutil.StakedDenom).Int64())
	s.Equal(int64(5000), testutil.Balance(s.T(), s.app, s.app.Staking.PoolAddress(), testutil.BaseDenom).Int64())
}

func (s *BondTestSuite) TestDepositForAnotherDepositor() {
	_, err := s.app.Execute(s.ctx, testutil.Bob, testutil.Coins(testutil.Principal, 10_000), types.DepositMsg{
		MaxPrice:  sdkmath.LegacyNewDec(2),
		Depositor: testutil.Carol,
	})
	s.Require().NoError(err)

	_, found := s.position(testutil.Bob)
	s.False(found)
	pos, found := s.position(testutil.Carol)
	s.Require().True(found)
	s.Equal("5000", pos.Payout.String())
	s.Equal(int64(90_000), testutil.Balance(s.T(), s.app, testutil.Bob, testutil.Principal).Int64())
}

func (s *BondTestSuite) TestDepositRejections() {
	testCases := []struct {
		name    string
		prepare func()
		sender  string
		funds   int64
		denom   string
		max     int64
		wantErr error
	}{
		{"wrong denom", nil, testutil.Treasury, 10_000, testutil.BaseDenom, 2, types.ErrInvalidInput},
		{"price above max price", nil, testutil.Alice, 10_000, testutil.Principal, 1, types.ErrSlippageExceeded},
		{"payout rounds to zero", nil, testutil.Alice, 1, testutil.Principal, 2, types.ErrBondTooSmall},
		{"payout above max payout", func() {
			s.updateTerms(func(t *types.Terms) { t.MaxPayout = sdkmath.LegacyNewDecWithPrec(1, 3) })
		}, testutil.Alice, 10_000, testutil.Principal, 2, types.ErrBondTooLarge},
		{"debt above max debt", func() {
			s.updateTerms(func(t *types.Terms) { t.MaxDebt = sdkmath.NewInt(1_000) })
			s.Require().NoError(s.deposit(testutil.Bob, 10_000, 2))
			s.clock.Advance(1)
		}, testutil.Alice, 10_000, testutil.Principal, 100, types.ErrMaxDebtReached},
		{"funds above balance", nil, testutil.Alice, 100_001, testutil.Principal, 2, types.ErrInsufficientBalance},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.SetupTest()
			if tc.prepare != nil {
				tc.prepare()
			}
			before := testutil.Balance(s.T(), s.app, tc.sender, tc.denom)
			height, err := s.app.Height()
			s.Require().NoError(err)

			_, err = s.app.Execute(s.ctx, tc.sender, testutil.Coins(tc.denom, tc.funds), types.DepositMsg{
				MaxPrice: sdkmath.LegacyNewDec(tc.max),
			})
			s.Require().ErrorIs(err, tc.wantErr)

			s.True(before.Equal(testutil.Balance(s.T(), s.app, tc.sender, tc.denom)))
			after, err := s.app.Height()
			s.Require().NoError(err)
			s.Equal(height, after)
			_, found := s.position(tc.sender)
			s.False(found)
		})
	}
}

func (s *BondTestSuite) TestDepositRequiresMaxPrice() {
	_, err := s.app.Execute(s.ctx, testutil.Alice, testutil.Coins(testutil.Principal, 10_000), types.DepositMsg{})
	s.Require().ErrorIs(err, types.ErrInvalidInput)
}

func (s *BondTestSuite) TestStalePriceBlocksDeposit() {
	s.clock.Advance(601)
	s.Require().ErrorIs(s.deposit(testutil.Alice, 10_000, 2), types.ErrStalePrice)

	_, err := s.app.Execute(s.ctx, testutil.Feeder, nil, types.FeedPriceMsg{
		Prices: []types.PriceFeed{{Denom: testutil.Principal, Price: sdkmath.LegacyNewDec(3)}},
	})
	s.Require().NoError(err)
	s.Require().NoError(s.deposit(testutil.Alice, 10_000, 2))

	pos, _ := s.position(testutil.Alice)
	s.True(pos.PricePaid.Equal(sdkmath.LegacyNewDec(6)), pos.PricePaid.String())
}

func (s *BondTestSuite) TestDepositWithoutUsd() {
	empty := ""
	_, err := s.app.Execute(s.ctx, testutil.Admin, nil, types.UpdateBondConfigMsg{Usd: &empty})
	s.Require().NoError(err)

	s.clock.Advance(10_000)
	s.Require().NoError(s.deposit(testutil.Alice, 10_000, 2))
	pos, _ := s.position(testutil.Alice)
	s.True(pos.PricePaid.Equal(sdkmath.LegacyNewDec(2)), pos.PricePaid.String())

	_, err = s.app.Query(s.ctx, types.QueryRequest{Contract: types.BondModuleName, Query: types.QueryAssetPrice})
	s.Require().ErrorIs(err, types.ErrPriceNotFound)
}

func (s *BondTestSuite) TestFloorReliefLiftsMinimumPrice() {
	enabled := true
	_, err := s.app.Execute(s.ctx, testutil.Admin, nil, types.UpdateBondConfigMsg{FloorRelief: &enabled})
	s.Require().NoError(err)

	// The floor binds on an empty book and stays.
	s.Require().NoError(s.deposit(testutil.Alice, 10_000, 2))
	s.True(s.terms().MinimumPrice.Equal(sdkmath.LegacyNewDec(2)))

	s.clock.Advance(1)
	s.Require().NoError(s.deposit(testutil.Alice, 10_000, 10))
	s.True(s.terms().MinimumPrice.IsZero())
}

func (s *BondTestSuite) TestAdjustmentRampsControlVariable() {
	_, err := s.app.Execute(s.ctx, testutil.Admin, nil, types.UpdateAdjustmentMsg{
		Add:    boolPtr(true),
		Rate:   decPtr(sdkmath.LegacyNewDec(100)),
		Target: decPtr(sdkmath.LegacyNewDec(1200)),
		Buffer: uint64Ptr(60),
	})
	s.Require().NoError(err)

	s.Require().NoError(s.deposit(testutil.Alice, 1_000, 100))
	s.True(s.terms().ControlVariable.Equal(sdkmath.LegacyNewDec(1000)), "buffer not elapsed")

	s.clock.Advance(60)
	s.Require().NoError(s.deposit(testutil.Alice, 1_000, 100))
	s.True(s.terms().ControlVariable.Equal(sdkmath.LegacyNewDec(1100)))

	s.clock.Advance(60)
	s.Require().NoError(s.deposit(testutil.Alice, 1_000, 100))
	s.True(s.terms().ControlVariable.Equal(sdkmath.LegacyNewDec(1200)))

	res := s.query(types.QueryAdjustment, types.QueryRequest{}).(types.Adjustment)
	s.True(res.Rate.IsZero())

	s.clock.Advance(60)
	s.Require().NoError(s.deposit(testutil.Alice, 1_000, 100))
	s.True(s.terms().ControlVariable.Equal(sdkmath.LegacyNewDec(1200)))
}

func (s *BondTestSuite) TestAdjustmentDownSaturatesAtZero() {
	_, err := s.app.Execute(s.ctx, testutil.Admin, nil, types.UpdateAdjustmentMsg{
		Add:    boolPtr(false),
		Rate:   decPtr(sdkmath.LegacyNewDec(1500)),
		Target: decPtr(sdkmath.LegacyNewDec(10)),
		Buffer: uint64Ptr(0),
	})
	s.Require().NoError(err)

	s.Require().NoError(s.deposit(testutil.Alice, 1_000, 2))
	s.True(s.terms().ControlVariable.IsZero())
	adjustment := s.query(types.QueryAdjustment, types.QueryRequest{}).(types.Adjustment)
	s.True(adjustment.Rate.IsZero())

	price := s.query(types.QueryBondPrice, types.QueryRequest{}).(sdkmath.LegacyDec)
	s.True(price.Equal(sdkmath.LegacyNewDec(2)))
}

func (s *BondTestSuite) TestAdminOperations() {
	terms := s.terms()
	_, err := s.app.Execute(s.ctx, testutil.Alice, nil, types.UpdateTermsMsg{Terms: terms})
	s.Require().ErrorIs(err, types.ErrUnauthorized)

	terms.VestingTerm = 0
	_, err = s.app.Execute(s.ctx, testutil.Admin, nil, types.UpdateTermsMsg{Terms: terms})
	s.Require().ErrorIs(err, types.ErrInvalidInput)

	_, err = s.app.Execute(s.ctx, testutil.Admin, nil, types.UpdateAdjustmentMsg{Rate: decPtr(sdkmath.LegacyNewDec(-1))})
	s.Require().ErrorIs(err, types.ErrInvalidInput)

	_, err = s.app.Execute(s.ctx, testutil.Bob, nil, types.UpdateBondConfigMsg{Treasury: &testutil.Bob})
	s.Require().ErrorIs(err, types.ErrUnauthorized)

	_, err = s.app.Execute(s.ctx, testutil.Admin, nil, types.UpdateBondConfigMsg{Treasury: &testutil.Bob})
	s.Require().NoError(err)
	s.Require().NoError(s.deposit(testutil.Alice, 10_000, 2))
	s.Equal(int64(110_000), testutil.Balance(s.T(), s.app, testutil.Bob, testutil.Principal).Int64())
}

func (s *BondTestSuite) TestPricingQueries() {
	price := s.query(types.QueryBondPrice, types.QueryRequest{}).(sdkmath.LegacyDec)
	s.True(price.Equal(sdkmath.LegacyNewDec(2)))

	asset := s.query(types.QueryAssetPrice, types.QueryRequest{}).(sdkmath.LegacyDec)
	s.True(asset.Equal(sdkmath.LegacyNewDecWithPrec(25, 1)))

	usd := s.query(types.QueryBondPriceInUsd, types.QueryRequest{}).(sdkmath.LegacyDec)
	s.True(usd.Equal(sdkmath.LegacyNewDec(5)))

	maxPayout := s.query(types.QueryMaxPayout, types.QueryRequest{}).(sdkmath.Int)
	s.Equal("200000", maxPayout.String())

	value := sdkmath.NewInt(10_000)
	payout := s.query(types.QueryPayoutFor, types.QueryRequest{Value: &value}).(sdkmath.Int)
	s.Equal("5000", payout.String())

	s.Require().NoError(s.deposit(testutil.Alice, 10_000, 2))
	ratio := s.query(types.QueryDebtRatio, types.QueryRequest{}).(sdkmath.LegacyDec)
	s.True(ratio.Equal(sdkmath.LegacyNewDec(5_000).QuoTruncate(sdkmath.LegacyNewDec(1_005_000))))
	standardized := s.query(types.QueryStandardizedDebtRatio, types.QueryRequest{}).(sdkmath.LegacyDec)
	s.True(standardized.Equal(ratio.Mul(asset)))

	s.clock.Advance(360)
	decay := s.query(types.QueryDebtDecay, types.QueryRequest{}).(sdkmath.Int)
	s.Equal("500", decay.String())

	_, err := s.app.Query(s.ctx, types.QueryRequest{Contract: types.BondModuleName, Query: types.QueryPayoutFor})
	s.Require().ErrorIs(err, types.ErrInvalidInput)
	_, err = s.app.Query(s.ctx, types.QueryRequest{Contract: types.BondModuleName, Query: types.QueryBondInfo, Address: testutil.Bob})
	s.Require().ErrorIs(err, types.ErrNoPosition)
	_, err = s.app.Query(s.ctx, types.QueryRequest{Contract: types.BondModuleName, Query: "nope"})
	s.Require().ErrorIs(err, types.ErrUnknownMessage)
}

func TestDecayAmount(t *testing.T) {
	start := testutil.GenesisTime
	debt := types.DebtState{OutstandingDebt: sdkmath.NewInt(5_000), LastDecayTime: start}

	testCases := []struct {
		elapsed time.Duration
		want    int64
	}{
		{0, 0},
		{time.Second, 1},
		{1800 * time.Second, 2_500},
		{3600 * time.Second, 5_000},
		{7200 * time.Second, 5_000},
	}
	for _, tc := range testCases {
		decay, err := bond.DecayAmount(debt, 3600, start.Add(tc.elapsed))
		require.NoError(t, err)
		require.Equal(t, tc.want, decay.Int64(), tc.elapsed.String())
	}

	_, err := bond.DecayAmount(debt, 0, start)
	require.ErrorIs(t, err, types.ErrArithmetic)
}

func TestCurrentPrice(t *testing.T) {
	terms := types.Terms{
		ControlVariable: sdkmath.LegacyNewDec(1000),
		MinimumPrice:    sdkmath.LegacyNewDec(2),
	}
	require.True(t, bond.CurrentPrice(terms, sdkmath.LegacyZeroDec()).Equal(sdkmath.LegacyNewDec(2)))
	require.True(t, bond.CurrentPrice(terms, sdkmath.LegacyNewDecWithPrec(1, 3)).Equal(sdkmath.LegacyNewDec(2)))
	require.True(t, bond.CurrentPrice(terms, sdkmath.LegacyNewDecWithPrec(5, 3)).Equal(sdkmath.LegacyNewDec(5)))
}

func boolPtr(b bool) *bool { return &b }

func uint64Ptr(v uint64) *uint64 { return &v }

func decPtr(d sdkmath.LegacyDec) *sdkmath.LegacyDec { return &d }
