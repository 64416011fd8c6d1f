// Package interests implements the clients_interests method: a per-client
// lookup of interest tags in the interests store.
package interests

import (
	"strconv"
	"time"

	"github.com/scorelab/scoring/server/auth"
	"github.com/scorelab/scoring/server/method"
	"github.com/scorelab/scoring/server/store"
	"github.com/scorelab/scoring/server/validate"
)

// args is the validated argument bag. Date is accepted and validated but
// carries no business meaning. Immutable once built.
type args struct {
	ClientIDs []int64
	Date      *time.Time
}

type handler struct{}

func (handler) Validate(raw map[string]interface{}) (interface{}, error) {
	var a args
	err := validate.Fields([]validate.Field{
		{Name: "client_ids", Required: true, Rule: validate.ClientIDs(&a.ClientIDs)},
		{Name: "date", Nullable: true, Rule: validate.Date(&a.Date)},
	}, raw)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (handler) Execute(bag interface{}, rec *auth.Rec) (interface{}, method.Info, error) {
	a := bag.(*args)

	res := make(map[string]interface{}, len(a.ClientIDs))
	for _, cid := range a.ClientIDs {
		tags, err := store.Interests.Get(cid)
		if err != nil {
			return nil, method.Info{}, err
		}
		if tags == nil {
			// Unknown ids map to an empty list, never omitted.
			tags = []string{}
		}
		res[strconv.FormatInt(cid, 10)] = tags
	}

	return res, method.Info{NClients: len(a.ClientIDs)}, nil
}

func init() {
	method.Register("clients_interests", handler{})
}
