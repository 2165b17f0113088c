package chain

import (
	"context"
	"fmt"
	"sync"

	"nipow/block"
	"nipow/chainstore"
	"nipow/config"
	"nipow/events"
	"nipow/exception"
	"nipow/logx"
	"nipow/monitoring"
	"nipow/proof"
)

// Engine maintains the local view of the best chain. It bootstraps from a
// chain proof, extends the tip from incoming headers and rebranches when a
// fork overtakes the main chain. All mutations run through the serializer,
// one at a time in submission order.
type Engine struct {
	store  chainstore.ChainStore
	bus    *events.EventBus
	params config.ConsensusParams

	ser *serializer

	// mu guards the head snapshot; written only from serialized
	// operations, read by the accessors.
	mu        sync.RWMutex
	headHash  block.Hash
	mainChain *chainstore.ChainData
	proof     *proof.ChainProof
}

// NewEngine initializes an engine at genesis on the given store and starts
// the writer loop. bus may be nil when nobody listens for head changes.
func NewEngine(store chainstore.ChainStore, bus *events.EventBus, params config.ConsensusParams) (*Engine, error) {
	genesis := block.Genesis()
	genesisHash := genesis.Hash()
	genesisData := chainstore.NewChainData(genesis, genesis.Difficulty(), block.RealDifficulty(genesisHash), true)
	if err := store.Put(genesisHash, genesisData); err != nil {
		return nil, fmt.Errorf("failed to install genesis: %w", err)
	}

	e := &Engine{
		store:     store,
		bus:       bus,
		params:    params,
		ser:       newSerializer(),
		headHash:  genesisHash,
		mainChain: genesisData,
		proof: proof.NewChainProof(
			proof.NewBlockChain([]*block.Block{genesis.ToLight()}),
			proof.NewHeaderChain(nil),
		),
	}

	exception.SafeGoWithPanic("chain-serializer", e.ser.run)

	monitoring.SetChainHeight(0)
	monitoring.SetChainTotalDifficulty(genesisData.TotalDifficulty)
	monitoring.SetChainTotalWork(genesisData.TotalWork)

	logx.Info("CHAIN", "Engine initialized at genesis ", genesisHash.Short())
	return e, nil
}

// Close stops the writer loop. The running operation finishes first;
// operations still waiting for the writer slot may fail with
// ErrEngineClosed.
func (e *Engine) Close() {
	e.ser.stop()
}

// Head returns the current main chain tip.
func (e *Engine) Head() *block.Block {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.mainChain.Head
}

// HeadHash returns the hash of the current tip.
func (e *Engine) HeadHash() block.Hash {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.headHash
}

// Height returns the tip height.
func (e *Engine) Height() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.mainChain.Head.Height()
}

// TotalDifficulty returns the cumulative difficulty of the main chain.
func (e *Engine) TotalDifficulty() int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.mainChain.TotalDifficulty
}

// Proof returns the proof backing the current chain view.
func (e *Engine) Proof() *proof.ChainProof {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.proof
}

// GetBlock looks up a stored block by hash; nil when unknown.
func (e *Engine) GetBlock(hash block.Hash) (*block.Block, error) {
	return e.store.GetBlock(hash)
}

// PushHeader validates and appends one header. The returned code is only
// meaningful when err is nil; validation failures are codes, not errors.
func (e *Engine) PushHeader(ctx context.Context, header *block.BlockHeader) (Result, error) {
	var (
		res   Result
		opErr error
	)
	if err := e.ser.do(ctx, func() {
		res, opErr = e.pushHeader(header)
	}); err != nil {
		return ErrInvalid, err
	}
	if opErr == nil {
		monitoring.IncreaseHeaderCount(res.String())
	}
	return res, opErr
}

// PushProof verifies a chain proof and adopts it when it beats the current
// one. With a nil error, returns false iff verification failed; a verified
// but not-better proof is accepted without being adopted.
func (e *Engine) PushProof(ctx context.Context, p *proof.ChainProof) (bool, error) {
	var (
		ok    bool
		opErr error
	)
	if err := e.ser.do(ctx, func() {
		ok, opErr = e.pushProof(p)
	}); err != nil {
		return false, err
	}
	return ok, opErr
}

func (e *Engine) pushHeader(header *block.BlockHeader) (Result, error) {
	hash := header.Hash()

	existing, err := e.store.Get(hash)
	if err != nil {
		return ErrInvalid, err
	}
	if existing != nil {
		logx.Debug("CHAIN", "Ignoring known header ", hash.Short())
		return OkKnown, nil
	}

	prevData, err := e.store.Get(header.PrevHash)
	if err != nil {
		return ErrInvalid, err
	}
	if prevData == nil || !prevData.Extendable() {
		logx.Warn("CHAIN", "Orphan header ", hash.Short(), " at height ", header.Height)
		return ErrOrphan, nil
	}

	blk, res := e.validateHeader(header, prevData)
	if blk == nil {
		return res, nil
	}

	return e.pushBlockInternal(blk, hash, prevData)
}

func (e *Engine) pushProof(p *proof.ChainProof) (bool, error) {
	suffixBlocks, ok := e.verifyProof(p)
	if !ok {
		monitoring.IncreaseProofCount("rejected")
		return false, nil
	}

	if !isBetterProof(p, e.proof, e.params.M) {
		logx.Info("CHAIN", "Verified chain proof is not better than current, keeping head ", e.headHash.Short())
		monitoring.IncreaseProofCount("not_better")
		return true, nil
	}

	if err := e.acceptProof(p, suffixBlocks); err != nil {
		monitoring.IncreaseProofCount("failed")
		return false, err
	}
	monitoring.IncreaseProofCount("adopted")
	return true, nil
}

// acceptProof installs a verified, better proof. When the prefix head
// already grafts into the stored chain the suffix is replayed in place;
// otherwise the store is reset to the new prefix first.
func (e *Engine) acceptProof(p *proof.ChainProof, suffixBlocks []*block.Block) error {
	head := p.Prefix.Head()
	headHash := head.Hash()

	headData, err := e.store.Get(headHash)
	if err != nil {
		return err
	}

	if headData == nil || !headData.Extendable() {
		// TODO seed the reset store from the dense tail of the prefix
		// instead of the prefix head alone.
		logx.Info("CHAIN", "Resetting chain store to proof prefix head ", headHash.Short(), " at height ", head.Height())
		if err := e.store.Truncate(); err != nil {
			return err
		}

		headData = chainstore.NewChainData(head, head.Difficulty(), block.RealDifficulty(headHash), true)
		entries := make([]chainstore.Entry, 0, p.Prefix.Len())
		entries = append(entries, chainstore.Entry{Hash: headHash, Data: headData})
		for _, b := range p.Prefix.Blocks[:p.Prefix.Len()-1] {
			entries = append(entries, chainstore.Entry{Hash: b.Hash(), Data: chainstore.NewRetrievalOnly(b)})
		}
		if err := e.store.PutBatch(entries); err != nil {
			return err
		}
		e.setHead(headHash, headData)
	}

	for _, blk := range suffixBlocks {
		hash := blk.Hash()
		existing, err := e.store.Get(hash)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}

		prevData, err := e.store.Get(blk.PrevHash())
		if err != nil {
			return err
		}
		if prevData == nil || !prevData.Extendable() {
			return fmt.Errorf("chain corruption: verified suffix block %s has no extendable predecessor", hash.Short())
		}
		res, err := e.pushBlockInternal(blk, hash, prevData)
		if err != nil {
			return err
		}
		if res < 0 {
			return fmt.Errorf("chain corruption: verified suffix block %s rejected with %s", hash.Short(), res)
		}
	}

	e.mu.Lock()
	e.proof = p
	e.mu.Unlock()

	logx.Info("CHAIN", "Adopted chain proof, head ", e.headHash.Short(), " at height ", e.mainChain.Head.Height())
	return nil
}

// pushBlockInternal appends a validated block: extend the main chain,
// rebranch to a heavier fork, or store a side branch.
func (e *Engine) pushBlockInternal(blk *block.Block, hash block.Hash, prevData *chainstore.ChainData) (Result, error) {
	totalDifficulty := prevData.TotalDifficulty + blk.Difficulty()
	totalWork := prevData.TotalWork + block.RealDifficulty(hash)
	data := chainstore.NewChainData(blk, totalDifficulty, totalWork, false)

	if blk.PrevHash() == e.headHash {
		data.OnMainChain = true
		if err := e.store.Put(hash, data); err != nil {
			return ErrInvalid, err
		}
		e.setHead(hash, data)
		e.notifyHeadChanged(blk, false)
		logx.Info("CHAIN", "Extended main chain to ", hash.Short(), " at height ", blk.Height())
		return OkExtended, nil
	}

	if totalDifficulty > e.mainChain.TotalDifficulty {
		depth, err := e.rebranch(hash, data)
		if err != nil {
			return ErrInvalid, err
		}
		e.notifyHeadChanged(blk, true)
		monitoring.IncreaseReorgCount(depth)
		logx.Info("CHAIN", "Rebranched to ", hash.Short(), " at height ", blk.Height(), " switching ", depth, " blocks")
		return OkRebranched, nil
	}

	if err := e.store.Put(hash, data); err != nil {
		return ErrInvalid, err
	}
	logx.Info("CHAIN", "Stored fork block ", hash.Short(), " at height ", blk.Height())
	return OkForked, nil
}

// rebranch switches the main chain designation from the current head to
// the fork ending in newData. All flag flips commit as one batch, so a
// crash mid-rebranch cannot leave a half-switched index on backends with
// transactions. Returns the fork length.
func (e *Engine) rebranch(newHash block.Hash, newData *chainstore.ChainData) (int, error) {
	// Walk the fork back to the first block that is still on the main
	// chain; that block is the lowest common ancestor.
	forkChain := []chainstore.Entry{{Hash: newHash, Data: newData}}
	cur := newData
	for {
		prevHash := cur.Head.PrevHash()
		prev, err := e.store.Get(prevHash)
		if err != nil {
			return 0, err
		}
		if prev == nil {
			return 0, fmt.Errorf("chain corruption: missing predecessor %s during rebranch", prevHash.Short())
		}
		if prev.OnMainChain {
			break
		}
		forkChain = append(forkChain, chainstore.Entry{Hash: prevHash, Data: prev})
		cur = prev
	}
	ancestorHash := cur.Head.PrevHash()

	batch := make([]chainstore.Entry, 0, len(forkChain)*2)

	// Take the old branch off the main chain, head down to the ancestor.
	hash := e.headHash
	for hash != ancestorHash {
		data, err := e.store.Get(hash)
		if err != nil {
			return 0, err
		}
		if data == nil {
			return 0, fmt.Errorf("chain corruption: missing main chain block %s during rebranch", hash.Short())
		}
		data.OnMainChain = false
		batch = append(batch, chainstore.Entry{Hash: hash, Data: data})
		hash = data.Head.PrevHash()
	}

	// Put the fork on the main chain, ancestor up to the new head.
	for i := len(forkChain) - 1; i >= 0; i-- {
		forkChain[i].Data.OnMainChain = true
		batch = append(batch, forkChain[i])
	}

	if err := e.store.PutBatch(batch); err != nil {
		return 0, err
	}

	e.setHead(newHash, newData)
	return len(forkChain), nil
}

func (e *Engine) setHead(hash block.Hash, data *chainstore.ChainData) {
	e.mu.Lock()
	e.headHash = hash
	e.mainChain = data
	e.mu.Unlock()

	monitoring.SetChainHeight(data.Head.Height())
	monitoring.SetChainTotalDifficulty(data.TotalDifficulty)
	monitoring.SetChainTotalWork(data.TotalWork)
}

// notifyHeadChanged fires after the store write, before the operation
// returns. Subscribers must not call back into the engine synchronously.
func (e *Engine) notifyHeadChanged(blk *block.Block, rebranch bool) {
	if e.bus == nil {
		return
	}
	e.bus.Publish(events.NewHeadChanged(blk, rebranch))
}
