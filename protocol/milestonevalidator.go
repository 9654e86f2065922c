package protocol

import (
	"context"

	"github.com/gossipdag/tangled/bundle"
	"github.com/gossipdag/tangled/hashpkg"
	"github.com/gossipdag/tangled/internal/logs"
	"github.com/gossipdag/tangled/milestone"
	"github.com/gossipdag/tangled/signing"
	"github.com/sirupsen/logrus"
)

// MilestoneValidatorWorkerError classifies why a candidate tail hash
// failed to become a validated milestone.
type MilestoneValidatorWorkerError int

const (
	ErrUnknownTail MilestoneValidatorWorkerError = iota
	ErrNotATail
	ErrMilestoneIncompleteBundle
	ErrMilestoneInvalid
)

func (e MilestoneValidatorWorkerError) Error() string {
	switch e {
	case ErrUnknownTail:
		return "unknown tail"
	case ErrNotATail:
		return "not a tail"
	case ErrMilestoneIncompleteBundle:
		return "incomplete bundle"
	case ErrMilestoneInvalid:
		return "invalid milestone"
	default:
		return "unknown milestone validation error"
	}
}

// MilestoneValidator consumes candidate tail hashes, walks each
// bundle's trunk chain, and validates it as a coordinator milestone.
type MilestoneValidator struct {
	protocol      *Protocol
	publicKey     signing.PublicKey
	securityLevel int
	depth         int
	log           *logrus.Entry
}

// NewMilestoneValidator creates a MilestoneValidator bound to p, using
// publicKey to verify the coordinator's signature over each candidate
// bundle.
func NewMilestoneValidator(p *Protocol, publicKey signing.PublicKey, securityLevel, depth int) *MilestoneValidator {
	return &MilestoneValidator{
		protocol:      p,
		publicKey:     publicKey,
		securityLevel: securityLevel,
		depth:         depth,
		log:           logs.Get(logs.SubsystemProtocol),
	}
}

// validate walks tailHash's bundle trunk chain, collecting one
// transaction plus securityLevel trunk ancestors, then validates the
// resulting candidate bundle.
func (v *MilestoneValidator) validate(tailHash hashpkg.Hash) (*milestone.Milestone, error) {
	tx, ok := v.protocol.Tangle.GetTransaction(tailHash)
	if !ok {
		return nil, ErrUnknownTail
	}
	if !tx.IsTail() {
		return nil, ErrNotATail
	}

	transactions := []*bundle.Transaction{tx}
	for i := 0; i < v.securityLevel; i++ {
		next, ok := v.protocol.Tangle.GetTransaction(tx.Trunk())
		if !ok {
			return nil, ErrMilestoneIncompleteBundle
		}
		transactions = append(transactions, next)
		tx = next
	}

	builder := milestone.NewBuilder(tailHash, v.securityLevel, v.depth, v.publicKey, transactions)
	if err := builder.Validate(); err != nil {
		if err == milestone.ErrIncompleteBundle {
			return nil, ErrMilestoneIncompleteBundle
		}
		return nil, ErrMilestoneInvalid
	}
	return builder.Build()
}

// Run consumes tail hashes off tails until the channel closes or ctx
// is done, adding every validated milestone to the tangle and
// advancing the last-milestone-index watermark when it is newer.
func (v *MilestoneValidator) Run(ctx context.Context, tails <-chan hashpkg.Hash) {
	v.log.Info("milestone validator running")
	defer v.log.Info("milestone validator stopped")

	for {
		select {
		case tailHash, ok := <-tails:
			if !ok {
				return
			}
			v.processTail(tailHash)
		case <-ctx.Done():
			return
		}
	}
}

func (v *MilestoneValidator) processTail(tailHash hashpkg.Hash) {
	ms, err := v.validate(tailHash)
	if err != nil {
		if err != ErrMilestoneIncompleteBundle {
			v.log.Debugf("invalid milestone bundle: %s", err)
		}
		return
	}

	v.protocol.Tangle.AddMilestone(ms.Index, ms.Hash)
	if ms.Index > v.protocol.Tangle.LastMilestoneIndex() {
		v.log.Infof("new milestone #%d", ms.Index)
		v.protocol.Tangle.SetLastMilestoneIndex(ms.Index)
	}
}
