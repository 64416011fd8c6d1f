// Package score implements the online_score method: a weighted score over
// whichever identity attributes the caller supplied.
package score

import (
	"time"

	"github.com/scorelab/scoring/server/auth"
	"github.com/scorelab/scoring/server/method"
	"github.com/scorelab/scoring/server/validate"
)

// Scoring weights. Phone and email each count on their own; names and
// birthday/gender count only as complete pairs.
const (
	weightPhone       = 1.5
	weightEmail       = 1.5
	weightBirthGender = 1.5
	weightNamePair    = 0.5

	// Admin callers skip the computation entirely.
	adminScore = 42
)

// args is the validated argument bag. A nil pointer means the field was
// absent or empty in the request.
type args struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
	Birthday  *time.Time
	Gender    *int
}

// set returns how many of the six fields are present and non-empty.
func (a *args) set() int {
	n := 0
	for _, present := range []bool{
		a.FirstName != nil, a.LastName != nil, a.Email != nil,
		a.Phone != nil, a.Birthday != nil, a.Gender != nil,
	} {
		if present {
			n++
		}
	}
	return n
}

// pairComplete checks the cross-field requirement: at least one of the pairs
// (phone, email), (first_name, last_name), (gender, birthday) must be fully
// present.
func (a *args) pairComplete() bool {
	return (a.Phone != nil && a.Email != nil) ||
		(a.FirstName != nil && a.LastName != nil) ||
		(a.Gender != nil && a.Birthday != nil)
}

type handler struct{}

func (handler) Validate(raw map[string]interface{}) (interface{}, error) {
	var a args
	err := validate.Fields([]validate.Field{
		{Name: "first_name", Nullable: true, Rule: validate.String(&a.FirstName)},
		{Name: "last_name", Nullable: true, Rule: validate.String(&a.LastName)},
		{Name: "email", Nullable: true, Rule: validate.Email(&a.Email)},
		{Name: "phone", Nullable: true, Rule: validate.Phone(&a.Phone)},
		{Name: "birthday", Nullable: true, Rule: validate.Birthday(&a.Birthday)},
		{Name: "gender", Nullable: true, Rule: validate.Gender(&a.Gender)},
	}, raw)
	if err != nil {
		return nil, err
	}
	if !a.pairComplete() {
		return nil, validate.CrossFieldError(
			"at least one pair of (phone, email), (first_name, last_name), (gender, birthday) is required")
	}
	return &a, nil
}

func (handler) Execute(bag interface{}, rec *auth.Rec) (interface{}, method.Info, error) {
	a := bag.(*args)
	info := method.Info{Has: a.set()}

	if rec.IsAdmin() {
		return map[string]interface{}{"score": adminScore}, info, nil
	}

	var score float64
	if a.Phone != nil {
		score += weightPhone
	}
	if a.Email != nil {
		score += weightEmail
	}
	if a.Birthday != nil && a.Gender != nil {
		score += weightBirthGender
	}
	if a.FirstName != nil && a.LastName != nil {
		score += weightNamePair
	}
	return map[string]interface{}{"score": score}, info, nil
}

func init() {
	method.Register("online_score", handler{})
}
