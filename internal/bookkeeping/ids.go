package bookkeeping

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/moajmalnk/faisytkd/internal/api"
	"github.com/moajmalnk/faisytkd/internal/common"
	"github.com/moajmalnk/faisytkd/internal/model"
)

const tempPrefix = "tmp-"

func newTempID() string {
	return tempPrefix + uuid.NewString()
}

// IsTemporary reports whether id was assigned locally and not yet replaced
// by a server id.
func IsTemporary(id string) bool {
	return strings.HasPrefix(id, tempPrefix)
}

// serverID converts a snapshot id into the remote service id. Temporary and
// seed ids have no server counterpart.
func serverID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q", common.ErrPendingID, id)
	}
	return n, nil
}

func serverRef(id string) (*int64, error) {
	if id == "" {
		return nil, nil
	}
	n, err := serverID(id)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func note(name string) *string {
	if name == "" {
		return nil
	}
	return &name
}

func obligationBody(kind model.Kind, o model.Obligation) (api.TransactionInput, error) {
	account, err := serverRef(o.AccountID)
	if err != nil {
		return api.TransactionInput{}, err
	}
	return api.TransactionInput{
		Kind:       string(kind),
		AccountID:  account,
		Amount:     o.Amount,
		Note:       note(o.Name),
		OccurredOn: o.Date.Format(model.DateLayout),
		Completed:  o.Completed,
	}, nil
}

func transactionBody(kind model.Kind, t model.Transaction) (api.TransactionInput, error) {
	account, err := serverRef(t.AccountID)
	if err != nil {
		return api.TransactionInput{}, err
	}
	category, err := serverRef(t.CategoryID)
	if err != nil {
		return api.TransactionInput{}, err
	}
	return api.TransactionInput{
		Kind:       string(kind),
		CategoryID: category,
		AccountID:  account,
		Amount:     t.Amount,
		Note:       note(t.Name),
		OccurredOn: t.Date.Format(model.DateLayout),
	}, nil
}

func (s *Snapshot) rekeyObligation(kind model.Kind, from, to string) {
	list := s.obligations(kind)
	for i := range *list {
		if (*list)[i].ID == from {
			(*list)[i].ID = to
		}
	}
}

func (s *Snapshot) rekeyTransaction(kind model.Kind, from, to string) {
	list := s.transactions(kind)
	for i := range *list {
		if (*list)[i].ID == from {
			(*list)[i].ID = to
		}
	}
}

func (s *Snapshot) rekeyAccount(from, to string) {
	s.Ledger.Rekey(from, to)
	s.rewriteAccountRefs(from, to)
}

func (s *Snapshot) rekeyCategory(from, to string) {
	for i := range s.Categories {
		if s.Categories[i].ID == from {
			s.Categories[i].ID = to
		}
	}
	s.rewriteCategoryRefs(from, to)
}
