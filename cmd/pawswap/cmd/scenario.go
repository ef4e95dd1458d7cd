package cmd

import (
	"fmt"
	"strings"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/viper"

	"github.com/paw-chain/pawswap/app"
	factorytypes "github.com/paw-chain/pawswap/x/factory/types"
	pairtypes "github.com/paw-chain/pawswap/x/pair/types"
	routertypes "github.com/paw-chain/pawswap/x/router/types"
	"github.com/paw-chain/pawswap/x/shared/contract"
	tokentypes "github.com/paw-chain/pawswap/x/token/types"
)

// Scenario describes a market and the transactions to replay against it.
// Assets are named by native denom or token symbol; pairs by "A/B".
// Amounts are decimal strings so they may exceed 64 bits.
type Scenario struct {
	Owner   string            `mapstructure:"owner"`
	SwapFee string            `mapstructure:"swap_fee"`
	Funds   map[string]string `mapstructure:"funds"`
	Tokens  []TokenSpec       `mapstructure:"tokens"`
	Pairs   []PairSpec        `mapstructure:"pairs"`
	Steps   []Step            `mapstructure:"steps"`
	Report  []string          `mapstructure:"report"`
}

type TokenSpec struct {
	Symbol   string            `mapstructure:"symbol"`
	Balances map[string]string `mapstructure:"balances"`
}

// PairSpec creates a pair and optionally seeds it with liquidity.
type PairSpec struct {
	Pair     string   `mapstructure:"pair"`
	Provider string   `mapstructure:"provider"`
	Amounts  []string `mapstructure:"amounts"`
}

// Step is one transaction. Exactly one of the operations is set.
type Step struct {
	Name     string        `mapstructure:"name"`
	Sender   string        `mapstructure:"sender"`
	Swap     *SwapStep     `mapstructure:"swap"`
	Route    *RouteStep    `mapstructure:"route"`
	Provide  *ProvideStep  `mapstructure:"provide"`
	Withdraw *WithdrawStep `mapstructure:"withdraw"`
}

type SwapStep struct {
	Pair           string `mapstructure:"pair"`
	Offer          string `mapstructure:"offer"`
	Amount         string `mapstructure:"amount"`
	To             string `mapstructure:"to"`
	ExpectedReturn string `mapstructure:"expected_return"`
	BeliefPrice    string `mapstructure:"belief_price"`
	MaxSpread      string `mapstructure:"max_spread"`
}

// RouteStep swaps Amount of Path[0] through every consecutive pair of Path.
type RouteStep struct {
	Path           []string `mapstructure:"path"`
	Amount         string   `mapstructure:"amount"`
	To             string   `mapstructure:"to"`
	ExpectedReturn string   `mapstructure:"expected_return"`
}

type ProvideStep struct {
	Pair    string   `mapstructure:"pair"`
	Amounts []string `mapstructure:"amounts"`
}

type WithdrawStep struct {
	Pair   string `mapstructure:"pair"`
	Shares string `mapstructure:"shares"`
}

// LoadScenario reads a YAML scenario file.
func LoadScenario(path string) (Scenario, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault("owner", "owner")
	v.SetDefault("swap_fee", "0.003")
	if err := v.ReadInConfig(); err != nil {
		return Scenario{}, fmt.Errorf("failed to read scenario %s: %w", path, err)
	}

	var sc Scenario
	if err := v.Unmarshal(&sc); err != nil {
		return Scenario{}, fmt.Errorf("failed to decode scenario %s: %w", path, err)
	}
	return sc, nil
}

// StepResult is the outcome of one replayed step.
type StepResult struct {
	Name    string   `yaml:"name" json:"name"`
	Status  string   `yaml:"status" json:"status"`
	Error   string   `yaml:"error,omitempty" json:"error,omitempty"`
	Events  int      `yaml:"events" json:"events"`
	Returns []string `yaml:"returns,omitempty" json:"returns,omitempty"`
}

// PoolReport is a pair's balances and share supply.
type PoolReport struct {
	Pair       string            `yaml:"pair" json:"pair"`
	Address    string            `yaml:"address" json:"address"`
	Assets     map[string]string `yaml:"assets" json:"assets"`
	TotalShare string            `yaml:"total_share" json:"total_share"`
}

// Report is the outcome of a replayed scenario.
type Report struct {
	Steps    []StepResult                 `yaml:"steps" json:"steps"`
	Balances map[string]map[string]string `yaml:"balances,omitempty" json:"balances,omitempty"`
	Pools    []PoolReport                 `yaml:"pools" json:"pools"`
}

// Simulator is a DEX deployed from a scenario.
type Simulator struct {
	app    *app.App
	dex    *app.DEX
	assets map[string]pairtypes.AssetInfo
	pairs  map[string]factorytypes.PairRecord
	order  []string
}

// NewSimulator deploys the scenario's market into a.
func NewSimulator(a *app.App, sc Scenario) (*Simulator, error) {
	fee, err := ParseFee(sc.SwapFee)
	if err != nil {
		return nil, err
	}
	dex, err := a.DeployDEX(sc.Owner, pairtypes.PairSettings{SwapFee: fee})
	if err != nil {
		return nil, err
	}

	denom := a.Config().NativeDenom
	s := &Simulator{
		app:    a,
		dex:    dex,
		assets: map[string]pairtypes.AssetInfo{denom: pairtypes.NativeAsset(denom)},
		pairs:  make(map[string]factorytypes.PairRecord),
	}

	for addr, amount := range sc.Funds {
		amt, ok := math.NewIntFromString(amount)
		if !ok {
			return nil, fmt.Errorf("funds of %s: invalid amount %q", addr, amount)
		}
		if err := a.Mint(addr, sdk.NewCoins(sdk.NewCoin(denom, amt))); err != nil {
			return nil, err
		}
	}

	for _, spec := range sc.Tokens {
		if _, ok := s.assets[spec.Symbol]; ok {
			return nil, fmt.Errorf("asset %s declared twice", spec.Symbol)
		}
		balances := make(map[string]math.Uint, len(spec.Balances))
		for addr, amount := range spec.Balances {
			if balances[addr], err = parseAmount(amount); err != nil {
				return nil, fmt.Errorf("token %s: %w", spec.Symbol, err)
			}
		}
		token, err := a.CreateToken(dex, spec.Symbol, balances)
		if err != nil {
			return nil, fmt.Errorf("token %s: %w", spec.Symbol, err)
		}
		s.assets[spec.Symbol] = pairtypes.TokenAsset(token)
	}

	for _, spec := range sc.Pairs {
		names, err := splitPair(spec.Pair)
		if err != nil {
			return nil, err
		}
		infos, err := s.assetInfos(names[:])
		if err != nil {
			return nil, err
		}
		rec, err := a.CreatePair(dex, sc.Owner, [2]pairtypes.AssetInfo{infos[0], infos[1]})
		if err != nil {
			return nil, fmt.Errorf("pair %s: %w", spec.Pair, err)
		}
		s.pairs[names[0]+"/"+names[1]] = rec
		s.pairs[names[1]+"/"+names[0]] = rec
		s.order = append(s.order, spec.Pair)

		if spec.Provider == "" {
			continue
		}
		if _, err := s.provide(spec.Provider, spec.Pair, spec.Amounts); err != nil {
			return nil, fmt.Errorf("seeding %s: %w", spec.Pair, err)
		}
	}
	return s, nil
}

// DEX returns the deployed factory and router.
func (s *Simulator) DEX() *app.DEX {
	return s.dex
}

// Replay runs every step and reports the accounts listed in report.
func (s *Simulator) Replay(steps []Step, report []string) (Report, error) {
	var out Report
	for i, step := range steps {
		out.Steps = append(out.Steps, s.Run(i, step))
	}

	if len(report) > 0 {
		out.Balances = make(map[string]map[string]string, len(report))
		for _, account := range report {
			bals, err := s.balances(account)
			if err != nil {
				return Report{}, err
			}
			out.Balances[account] = bals
		}
	}

	for _, name := range s.order {
		pool, err := s.pool(name)
		if err != nil {
			return Report{}, err
		}
		out.Pools = append(out.Pools, pool)
	}
	return out, nil
}

// Run executes step as its own transaction. A failed step is reported, not
// returned: later steps still run.
func (s *Simulator) Run(i int, step Step) StepResult {
	name := step.Name
	if name == "" {
		name = fmt.Sprintf("step %d", i+1)
	}

	res, err := s.run(step)
	if err != nil {
		return StepResult{Name: name, Status: "failed", Error: err.Error()}
	}

	out := StepResult{Name: name, Status: "ok", Events: len(res.Events)}
	for _, ev := range res.Events {
		if ev.Type != pairtypes.EventTypeSwap {
			continue
		}
		for _, attr := range ev.Attributes {
			if attr.Key == pairtypes.AttributeKeyReturnAmount {
				out.Returns = append(out.Returns, attr.Value)
			}
		}
	}
	return out
}

func (s *Simulator) run(step Step) (*app.Result, error) {
	if step.Sender == "" {
		return nil, fmt.Errorf("step without sender")
	}
	switch {
	case step.Swap != nil:
		return s.swap(step.Sender, *step.Swap)
	case step.Route != nil:
		return s.route(step.Sender, *step.Route)
	case step.Provide != nil:
		return s.provide(step.Sender, step.Provide.Pair, step.Provide.Amounts)
	case step.Withdraw != nil:
		rec, err := s.pair(step.Withdraw.Pair)
		if err != nil {
			return nil, err
		}
		shares, err := parseAmount(step.Withdraw.Shares)
		if err != nil {
			return nil, err
		}
		return s.app.WithdrawLiquidity(step.Sender, rec, shares)
	default:
		return nil, fmt.Errorf("step without operation")
	}
}

func (s *Simulator) swap(sender string, step SwapStep) (*app.Result, error) {
	rec, err := s.pair(step.Pair)
	if err != nil {
		return nil, err
	}
	info, err := s.asset(step.Offer)
	if err != nil {
		return nil, err
	}
	amount, err := parseAmount(step.Amount)
	if err != nil {
		return nil, err
	}

	var bounds pairtypes.SwapBounds
	if step.ExpectedReturn != "" {
		expected, err := parseAmount(step.ExpectedReturn)
		if err != nil {
			return nil, err
		}
		bounds.ExpectedReturn = &expected
	}
	if bounds.BeliefPrice, err = parseOptionalDec(step.BeliefPrice); err != nil {
		return nil, err
	}
	if bounds.MaxSpread, err = parseOptionalDec(step.MaxSpread); err != nil {
		return nil, err
	}

	offer := pairtypes.NewAsset(info, amount)
	var msg contract.Msg
	if info.IsNative() {
		msg, err = pairtypes.NewNativeSwapMsg(rec.Pair, offer, bounds, step.To)
	} else {
		msg, err = pairtypes.NewTokenSwapMsg(*info.Token, rec.Pair, offer, bounds, step.To)
	}
	if err != nil {
		return nil, err
	}
	return s.app.Dispatch(sender, msg)
}

func (s *Simulator) route(sender string, step RouteStep) (*app.Result, error) {
	if len(step.Path) < 2 {
		return nil, fmt.Errorf("route path needs at least two assets")
	}
	infos, err := s.assetInfos(step.Path)
	if err != nil {
		return nil, err
	}
	amount, err := parseAmount(step.Amount)
	if err != nil {
		return nil, err
	}

	route := routertypes.Route{To: step.To}
	if route.To == "" {
		route.To = sender
	}
	for i := 0; i+1 < len(step.Path); i++ {
		rec, err := s.pair(step.Path[i] + "/" + step.Path[i+1])
		if err != nil {
			return nil, err
		}
		route.Hops = append(route.Hops, routertypes.Hop{FromToken: infos[i], Pair: rec.Pair})
	}
	if step.ExpectedReturn != "" {
		expected, err := parseAmount(step.ExpectedReturn)
		if err != nil {
			return nil, err
		}
		route.ExpectedReturn = &expected
	}

	var msg contract.Msg
	if first := infos[0]; first.IsNative() {
		msg, err = routertypes.NewNativeRoute(s.dex.Router, sender, pairtypes.NewAsset(first, amount).Coin(), route)
	} else {
		msg, err = routertypes.NewTokenRoute(s.dex.Router, *first.Token, amount, route)
	}
	if err != nil {
		return nil, err
	}
	return s.app.Dispatch(sender, msg)
}

// provide deposits amounts, listed in the order pair names its assets.
func (s *Simulator) provide(sender, pair string, amounts []string) (*app.Result, error) {
	names, err := splitPair(pair)
	if err != nil {
		return nil, err
	}
	if len(amounts) != 2 {
		return nil, fmt.Errorf("pair %s needs two amounts, got %d", pair, len(amounts))
	}
	rec, err := s.pair(pair)
	if err != nil {
		return nil, err
	}
	first, err := s.asset(names[0])
	if err != nil {
		return nil, err
	}

	var deposits [2]math.Uint
	for i := range amounts {
		if deposits[i], err = parseAmount(amounts[i]); err != nil {
			return nil, err
		}
	}
	if !rec.AssetInfos[0].Equal(first) {
		deposits[0], deposits[1] = deposits[1], deposits[0]
	}
	return s.app.ProvideLiquidity(sender, rec, deposits)
}

func (s *Simulator) balances(account string) (map[string]string, error) {
	out := make(map[string]string, len(s.assets))
	for name, info := range s.assets {
		var (
			amount fmt.Stringer
			err    error
		)
		if info.IsNative() {
			amount, err = s.app.Balance(account, info.NativeToken.Denom)
		} else {
			amount, err = tokentypes.QueryBalance(s.app, *info.Token, account)
		}
		if err != nil {
			return nil, err
		}
		out[name] = amount.String()
	}
	return out, nil
}

func (s *Simulator) pool(name string) (PoolReport, error) {
	rec, err := s.pair(name)
	if err != nil {
		return PoolReport{}, err
	}
	pool, err := pairtypes.QueryPool(s.app, rec.Pair)
	if err != nil {
		return PoolReport{}, err
	}

	out := PoolReport{
		Pair:       name,
		Address:    rec.Pair.Address,
		Assets:     make(map[string]string, 2),
		TotalShare: pool.TotalShare.String(),
	}
	for _, asset := range pool.Assets {
		out.Assets[s.assetName(asset.Info)] = asset.Amount.String()
	}
	return out, nil
}

func (s *Simulator) asset(name string) (pairtypes.AssetInfo, error) {
	info, ok := s.assets[name]
	if !ok {
		return pairtypes.AssetInfo{}, fmt.Errorf("unknown asset %s", name)
	}
	return info, nil
}

func (s *Simulator) assetInfos(names []string) ([]pairtypes.AssetInfo, error) {
	out := make([]pairtypes.AssetInfo, len(names))
	for i, name := range names {
		info, err := s.asset(name)
		if err != nil {
			return nil, err
		}
		out[i] = info
	}
	return out, nil
}

func (s *Simulator) assetName(info pairtypes.AssetInfo) string {
	for name, candidate := range s.assets {
		if candidate.Equal(info) {
			return name
		}
	}
	return info.String()
}

func (s *Simulator) pair(name string) (factorytypes.PairRecord, error) {
	rec, ok := s.pairs[name]
	if !ok {
		return factorytypes.PairRecord{}, fmt.Errorf("unknown pair %s", name)
	}
	return rec, nil
}

func splitPair(name string) ([2]string, error) {
	parts := strings.Split(name, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return [2]string{}, fmt.Errorf("pair %q must be written A/B", name)
	}
	return [2]string{parts[0], parts[1]}, nil
}

func parseOptionalDec(s string) (*math.LegacyDec, error) {
	if s == "" {
		return nil, nil
	}
	d, err := math.LegacyNewDecFromStr(s)
	if err != nil {
		return nil, fmt.Errorf("invalid decimal %q: %w", s, err)
	}
	return &d, nil
}
