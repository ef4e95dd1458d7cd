// Package app hosts pawswap contracts in an in-process environment.
//
// The App keeps contract codes, instances, a native-coin bank and every
// contract's state in one ordered KV store. Each transaction runs in a
// cache branch written back only when it succeeds, and every message a
// contract emits runs in a nested branch of its own:
//   - messages dispatch depth-first in emission order, sent by the emitter
//   - funds attached to a call are credited before the callee runs
//   - a failing best-effort message is logged and dropped
//   - any other failure aborts the whole transaction
package app

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/store/cachekv"
	"cosmossdk.io/store/dbadapter"
	storetypes "cosmossdk.io/store/types"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/zeebo/blake3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/paw-chain/pawswap/x/shared/contract"
)

// Code is a stored contract code.
type Code struct {
	ID       uint64
	Name     string
	Hash     string
	contract contract.Contract
}

// Instance is a contract instance record.
type Instance struct {
	Address  string `json:"address"`
	CodeID   uint64 `json:"code_id"`
	CodeHash string `json:"code_hash"`
	Label    string `json:"label"`
	Creator  string `json:"creator"`
}

// Callable returns the reference other contracts use to call the instance.
func (i Instance) Callable() contract.Callable {
	return contract.Callable{Address: i.Address, CodeHash: i.CodeHash}
}

var (
	instances   = contract.NewMap[Instance](InstancePrefix)
	instanceSeq = contract.NewItem[uint64](InstanceSeqKey)
)

// Result is what a successful transaction produced.
type Result struct {
	Events sdk.Events
	Data   []byte
}

// App is the contract environment. It is safe for concurrent use;
// transactions and queries are serialized.
type App struct {
	mu sync.Mutex

	root   storetypes.KVStore
	codes  map[uint64]Code
	cfg    Config
	logger log.Logger

	metrics  *AppMetrics
	failures FailureHandler
	tracer   trace.Tracer

	height    int64
	blockTime time.Time
}

var _ contract.Querier = (*App)(nil)

// NewApp creates an empty environment over an in-memory database.
func NewApp(cfg Config, logger log.Logger) (*App, error) {
	return NewAppWithDB(cfg, logger, dbm.NewMemDB())
}

// NewAppWithDB creates an environment persisting to db.
func NewAppWithDB(cfg Config, logger log.Logger, db dbm.DB) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger = logger.With("module", ModuleName)
	metrics := NewAppMetrics()
	return &App{
		root:      &dbadapter.Store{DB: db},
		codes:     make(map[uint64]Code),
		cfg:       cfg,
		logger:    logger,
		metrics:   metrics,
		failures:  NewFailureHandler(logger, metrics),
		tracer:    otel.Tracer(TracerName),
		blockTime: time.Unix(0, 0).UTC(),
	}, nil
}

// Config returns the environment settings.
func (a *App) Config() Config {
	return a.cfg
}

// Logger returns the environment logger.
func (a *App) Logger() log.Logger {
	return a.logger
}

// Height returns the height of the last transaction.
func (a *App) Height() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.height
}

// CodeHash returns the hash a code named name is stored under.
func CodeHash(name string) string {
	sum := blake3.Sum256([]byte(name))
	return hex.EncodeToString(sum[:])
}

// StoreCode registers c under the next code id.
func (a *App) StoreCode(name string, c contract.Contract) Code {
	a.mu.Lock()
	defer a.mu.Unlock()

	code := Code{
		ID:       uint64(len(a.codes) + 1),
		Name:     name,
		Hash:     CodeHash(name),
		contract: c,
	}
	a.codes[code.ID] = code
	a.logger.Info("code stored", "code_id", code.ID, "name", name, "code_hash", code.Hash)
	return code
}

// Codes lists stored codes by id.
func (a *App) Codes() []Code {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]Code, 0, len(a.codes))
	for _, c := range a.codes {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Instantiate creates an instance of codeID as sender.
func (a *App) Instantiate(sender string, codeID uint64, label string, msg any, funds sdk.Coins) (Instance, *Result, error) {
	bz, err := json.Marshal(msg)
	if err != nil {
		return Instance{}, nil, contract.ErrEncoding.Wrapf("instantiate msg: %s", err)
	}

	var inst Instance
	res, err := a.runTx("instantiate", func(ctx context.Context, tx storetypes.KVStore, res *Result) error {
		code, err := a.code(codeID)
		if err != nil {
			return err
		}
		inst, err = a.instantiate(ctx, tx, sender, contract.InstantiateMsg{
			CodeID:   codeID,
			CodeHash: code.Hash,
			Label:    label,
			Msg:      bz,
			Funds:    funds,
		}, 0, res)
		return err
	})
	return inst, res, err
}

// Execute calls the contract at target as sender.
func (a *App) Execute(sender, target string, msg any, funds sdk.Coins) (*Result, error) {
	bz, err := json.Marshal(msg)
	if err != nil {
		return nil, contract.ErrEncoding.Wrapf("execute msg: %s", err)
	}

	return a.runTx("execute", func(ctx context.Context, tx storetypes.KVStore, res *Result) error {
		inst, err := a.instance(tx, target)
		if err != nil {
			return err
		}
		return a.execute(ctx, tx, sender, contract.ExecuteMsg{
			Contract: inst.Callable(),
			Msg:      bz,
			Funds:    funds,
		}, 0, res)
	})
}

// Dispatch runs msgs as one transaction sent by sender.
func (a *App) Dispatch(sender string, msgs ...contract.Msg) (*Result, error) {
	return a.runTx("dispatch", func(ctx context.Context, tx storetypes.KVStore, res *Result) error {
		for _, msg := range msgs {
			if err := a.dispatch(ctx, tx, sender, msg, 0, res); err != nil {
				return err
			}
		}
		return nil
	})
}

// Mint credits coins to address out of thin air, as genesis funding does.
func (a *App) Mint(address string, coins sdk.Coins) error {
	_, err := a.runTx("mint", func(_ context.Context, tx storetypes.KVStore, _ *Result) error {
		return a.mint(tx, address, coins)
	})
	return err
}

// Contract returns the instance at address.
func (a *App) Contract(address string) (Instance, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.instance(a.root, address)
}

// runTx runs fn in a branch of the root store and commits it on success.
func (a *App) runTx(entry string, fn func(ctx context.Context, tx storetypes.KVStore, res *Result) error) (*Result, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.height++
	a.blockTime = a.blockTime.Add(a.cfg.BlockTimeStep)

	ctx, span := a.tracer.Start(context.Background(), "tx "+entry, trace.WithAttributes(
		attribute.String(AttributeKeyEntry, entry),
		attribute.Int64(AttributeKeyHeight, a.height),
	))
	defer span.End()

	tx := cachekv.NewStore(a.root)
	res := &Result{}
	if err := fn(ctx, tx, res); err != nil {
		a.metrics.Transactions.WithLabelValues(entry, "failed").Inc()
		a.failures.Handle(entry, SeverityLow, a.height, err)
		recordSpanError(span, err)
		return nil, err
	}
	tx.Write()

	a.metrics.Transactions.WithLabelValues(entry, "ok").Inc()
	return res, nil
}

func (a *App) code(id uint64) (Code, error) {
	code, ok := a.codes[id]
	if !ok {
		return Code{}, ErrUnknownCode.Wrapf("%d", id)
	}
	return code, nil
}

func (a *App) instance(store storetypes.KVStore, address string) (Instance, error) {
	inst, found, err := instances.MayLoad(store, []byte(address))
	if err != nil {
		return Instance{}, err
	}
	if !found {
		return Instance{}, ErrUnknownContract.Wrap(address)
	}
	return inst, nil
}

// resolve returns the instance target refers to and its code. An empty code
// hash is accepted only when strict is false.
func (a *App) resolve(store storetypes.KVStore, target contract.Callable, strict bool) (Instance, Code, error) {
	inst, err := a.instance(store, target.Address)
	if err != nil {
		return Instance{}, Code{}, err
	}
	if (strict || target.CodeHash != "") && target.CodeHash != inst.CodeHash {
		return Instance{}, Code{}, ErrCodeHashMismatch.Wrapf("%s runs %s, called with %q", inst.Address, inst.CodeHash, target.CodeHash)
	}
	code, err := a.code(inst.CodeID)
	if err != nil {
		return Instance{}, Code{}, err
	}
	return inst, code, nil
}

// contractAddress derives the address of the seq-th instance of codeID.
func contractAddress(codeID, seq uint64) string {
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[:8], codeID)
	binary.BigEndian.PutUint64(buf[8:], seq)
	sum := blake3.Sum256(buf[:])
	return sdk.AccAddress(sum[:20]).String()
}
