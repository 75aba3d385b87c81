package reactive

import "sync"

// depLink is the bidirectional record joining one signal and one effect.
// It belongs to exactly one signal list and one effect list at a time;
// removing it from either list removes it from both (destroyDepLink is
// the only way a link leaves either list).
type depLink struct {
	sig *signalNode
	eff *effectNode

	// sibling pointers within the signal's effect list.
	prevInSig, nextInSig *depLink
	// sibling pointers within the effect's signal list.
	prevInEff, nextInEff *depLink

	// version is the effect's depVersion as of the read that created or
	// last reaffirmed this link. The post-run sweep in trackEffectDeps
	// evicts any link whose version lags the effect's current depVersion.
	version uint64
}

// signalNode is embedded in every signal-shaped value (ValueRef,
// PropertyRef, Computed) to give it a place in the dependency graph: the
// head/tail of its outbound effect-link list, plus a unique id used for
// identity and debug hooks.
type signalNode struct {
	mu         sync.Mutex
	id         uint64
	headEffect *depLink
	tailEffect *depLink
	linkCount  int
}

// effectNode is embedded in every effect-shaped value (Effect, the
// private effect a Computed uses to observe its own sources, watcher
// jobs) to give it a place in the dependency graph: the head/tail of its
// inbound signal-link list, its depVersion, and a lazily allocated
// (signal -> link) index used to coalesce repeat reads within one run.
type effectNode struct {
	mu         sync.Mutex
	id         uint64
	depVersion uint64
	headSignal *depLink
	tailSignal *depLink
	linkCount  int

	// index coalesces a signal read against an existing link instead of
	// allocating a new node. Allocated lazily once linkCount crosses
	// indexThreshold, matching spec §4.1 ("lazily allocated above a small
	// threshold").
	index map[*signalNode]*depLink

	// onNotify is invoked when a linked signal fires a trigger against
	// this node. Effect and the private re-evaluation effect a Computed
	// keeps both set this to their own notify handling; it is what lets
	// dep.go stay ignorant of everything built on top of effectNode.
	onNotify func()

	// ownerEffect points back to the Effect this node belongs to, or nil
	// for a node that isn't a full Effect (a Computed's internal
	// watcher). Used only to let OnCleanup find the active effect.
	ownerEffect *Effect
}

// indexThreshold is the link count above which effectNode starts
// maintaining its (signal -> link) index instead of scanning its list.
const indexThreshold = 8

// linkSignalToEffect creates or reaffirms the link between sig and eff.
// If a link already exists (found via the index, or by a linear scan
// below indexThreshold), its version is bumped to eff's current
// depVersion and no new node is allocated. Returns the (possibly new)
// link. O(1) amortized.
func linkSignalToEffect(eff *effectNode, sig *signalNode) *depLink {
	eff.mu.Lock()
	if eff.index != nil {
		if l := eff.index[sig]; l != nil {
			l.version = eff.depVersion
			eff.mu.Unlock()
			return l
		}
	} else {
		for l := eff.headSignal; l != nil; l = l.nextInEff {
			if l.sig == sig {
				l.version = eff.depVersion
				eff.mu.Unlock()
				return l
			}
		}
	}
	eff.mu.Unlock()

	l := &depLink{sig: sig, eff: eff, version: eff.depVersion}

	sig.mu.Lock()
	l.prevInSig = sig.tailEffect
	if sig.tailEffect != nil {
		sig.tailEffect.nextInSig = l
	} else {
		sig.headEffect = l
	}
	sig.tailEffect = l
	sig.linkCount++
	sig.mu.Unlock()

	eff.mu.Lock()
	l.prevInEff = eff.tailSignal
	if eff.tailSignal != nil {
		eff.tailSignal.nextInEff = l
	} else {
		eff.headSignal = l
	}
	eff.tailSignal = l
	eff.linkCount++
	if eff.index == nil && eff.linkCount > indexThreshold {
		eff.index = make(map[*signalNode]*depLink, eff.linkCount*2)
		for c := eff.headSignal; c != nil; c = c.nextInEff {
			eff.index[c.sig] = c
		}
	} else if eff.index != nil {
		eff.index[sig] = l
	}
	eff.mu.Unlock()

	return l
}

// destroyDepLink unlinks l from both its signal's list and its effect's
// list. O(1). Calling it again on a link it has already destroyed is a
// no-op.
func destroyDepLink(l *depLink) {
	if l == nil || l.sig == nil || l.eff == nil {
		return
	}

	l.sig.mu.Lock()
	if l.prevInSig != nil {
		l.prevInSig.nextInSig = l.nextInSig
	} else if l.sig.headEffect == l {
		l.sig.headEffect = l.nextInSig
	}
	if l.nextInSig != nil {
		l.nextInSig.prevInSig = l.prevInSig
	} else if l.sig.tailEffect == l {
		l.sig.tailEffect = l.prevInSig
	}
	l.sig.linkCount--
	l.sig.mu.Unlock()

	l.eff.mu.Lock()
	if l.prevInEff != nil {
		l.prevInEff.nextInEff = l.nextInEff
	} else if l.eff.headSignal == l {
		l.eff.headSignal = l.nextInEff
	}
	if l.nextInEff != nil {
		l.nextInEff.prevInEff = l.prevInEff
	} else if l.eff.tailSignal == l {
		l.eff.tailSignal = l.prevInEff
	}
	l.eff.linkCount--
	if l.eff.index != nil {
		delete(l.eff.index, l.sig)
	}
	l.eff.mu.Unlock()

	l.prevInSig, l.nextInSig = nil, nil
	l.prevInEff, l.nextInEff = nil, nil
	l.sig, l.eff = nil, nil
}

// clearEffectLinks destroys every link in eff's inbound signal list,
// leaving eff with no dependencies. Used when an effect is disposed.
func clearEffectLinks(eff *effectNode) {
	eff.mu.Lock()
	links := make([]*depLink, 0, eff.linkCount)
	for l := eff.headSignal; l != nil; l = l.nextInEff {
		links = append(links, l)
	}
	eff.mu.Unlock()

	for _, l := range links {
		destroyDepLink(l)
	}
}

// clearSignalLinks destroys every link in sig's outbound effect list,
// leaving sig with no subscribers. Used when a signal itself is retired.
func clearSignalLinks(sig *signalNode) {
	sig.mu.Lock()
	links := make([]*depLink, 0, sig.linkCount)
	for l := sig.headEffect; l != nil; l = l.nextInSig {
		links = append(links, l)
	}
	sig.mu.Unlock()

	for _, l := range links {
		destroyDepLink(l)
	}
}

// hasLinkedSignal reports whether eff currently depends on at least one
// signal.
func hasLinkedSignal(eff *effectNode) bool {
	eff.mu.Lock()
	defer eff.mu.Unlock()
	return eff.headSignal != nil
}

// iterateLinkedSignals returns the signals eff currently depends on, as a
// snapshot taken under eff's lock. Safe to range over even if eff's links
// change concurrently (the new links simply won't appear in this
// snapshot, matching spec §4.2's "materializes a local snapshot").
func iterateLinkedSignals(eff *effectNode) []*signalNode {
	eff.mu.Lock()
	defer eff.mu.Unlock()

	out := make([]*signalNode, 0, eff.linkCount)
	for l := eff.headSignal; l != nil; l = l.nextInEff {
		out = append(out, l.sig)
	}
	return out
}

// iterateLinkedEffects returns the effects currently subscribed to sig,
// as a snapshot taken under sig's lock.
func iterateLinkedEffects(sig *signalNode) []*effectNode {
	sig.mu.Lock()
	defer sig.mu.Unlock()

	out := make([]*effectNode, 0, sig.linkCount)
	for l := sig.headEffect; l != nil; l = l.nextInSig {
		out = append(out, l.eff)
	}
	return out
}
