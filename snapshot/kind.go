package snapshot

import (
	"fmt"
	"time"
)

// namePrefix starts every snapshot name so that snapshots are recognisable
// no matter where the target directory gets mirrored to.
const namePrefix = "tezedge"

// Kind tags a produced artefact. An archive snapshot is a packaged copy of
// the node's database, a full snapshot is the compacted export produced by
// the snapshot helper.
type Kind string

const (
	KindArchive Kind = "archive"
	KindFull    Kind = "full"
)

// Selector picks the artefacts a snapshot cycle produces. SelectorAll
// produces both kinds from a single stop/start cycle.
type Selector string

const (
	SelectorArchive Selector = "archive"
	SelectorFull    Selector = "full"
	SelectorAll     Selector = "all"
)

// Kinds translates the selector into the artefact kinds to produce, in
// production order.
func (s Selector) Kinds() []Kind {
	switch s {
	case SelectorFull:
		return []Kind{KindFull}
	case SelectorAll:
		return []Kind{KindArchive, KindFull}
	default:
		return []Kind{KindArchive}
	}
}

func (s Selector) String() string {
	return string(s)
}

// UnmarshalFlag implements the flags.Unmarshaler interface.
func (s *Selector) UnmarshalFlag(value string) error {
	return s.UnmarshalText([]byte(value))
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (s *Selector) UnmarshalText(text []byte) error {
	switch Selector(text) {
	case SelectorArchive:
		*s = SelectorArchive
	case SelectorFull:
		*s = SelectorFull
	case SelectorAll:
		*s = SelectorAll
	default:
		return fmt.Errorf("unsupported snapshot kind %q, expect one of: archive, full, all", text)
	}
	return nil
}

// MarshalText implements the encoding.TextMarshaler interface.
func (s Selector) MarshalText() ([]byte, error) {
	return []byte(s), nil
}

const (
	nameDateLayout = "20060102"
	nameTimeLayout = "150405"

	// tempSuffix marks an entry that is still being written. Entries wearing
	// it are invisible to retention and to external consumers.
	tempSuffix = ".temp"
)

// Identity carries everything a snapshot is named after. It is computed once
// per attempt, before the node is stopped, and shared by every artefact the
// attempt produces so an operator can correlate them.
type Identity struct {
	Network string
	Time    time.Time
	Head    string
}

// NewIdentity builds the identity of a snapshot attempt started at the given
// time, against the given head block hash.
func NewIdentity(network, head string, at time.Time) Identity {
	return Identity{
		Network: network,
		Time:    at.UTC(),
		Head:    head,
	}
}

// Name derives the final name of an artefact. It is a pure function of the
// identity and the kind.
func (id Identity) Name(kind Kind) string {
	return fmt.Sprintf("%s_%s_%s-%s_%s_%s",
		namePrefix,
		id.Network,
		id.Time.Format(nameDateLayout),
		id.Time.Format(nameTimeLayout),
		id.Head,
		kind,
	)
}

// TempName derives the staging name of an artefact, the one it wears until
// it is promoted.
func (id Identity) TempName(kind Kind) string {
	return id.Name(kind) + tempSuffix
}
