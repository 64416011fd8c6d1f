package interests

import (
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"

	"github.com/scorelab/scoring/server/auth"
	"github.com/scorelab/scoring/server/store"
	"github.com/scorelab/scoring/server/store/mock_store"
)

var userRec = &auth.Rec{Level: auth.LevelUser, Login: "h&f", Account: "horns&hoofs"}

func swapInterests(t *testing.T, mock store.InterestsPersistenceInterface) {
	t.Helper()
	prev := store.Interests
	store.Interests = mock
	t.Cleanup(func() { store.Interests = prev })
}

func TestValidateRequiresClientIDs(t *testing.T) {
	if _, err := (handler{}).Validate(map[string]interface{}{}); err == nil {
		t.Error("Expected an error when client_ids is missing")
	}
	if _, err := (handler{}).Validate(map[string]interface{}{"client_ids": []interface{}{}}); err == nil {
		t.Error("Expected an error when client_ids is empty")
	}
	if _, err := (handler{}).Validate(map[string]interface{}{
		"client_ids": []interface{}{float64(1), float64(2)},
		"date":       "20.07.2017"}); err != nil {
		t.Errorf("Expected valid arguments to pass, got %v", err)
	}
}

func TestExecuteLookups(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mock := mock_store.NewMockInterestsPersistenceInterface(ctrl)
	mock.EXPECT().Get(int64(1)).Return([]string{"books", "hi-tech"}, nil)
	mock.EXPECT().Get(int64(2)).Return([]string{"pets", "tv"}, nil)
	// Unknown client: adapter reports no tags.
	mock.EXPECT().Get(int64(99)).Return(nil, nil)
	swapInterests(t, mock)

	bag, err := handler{}.Validate(map[string]interface{}{
		"client_ids": []interface{}{float64(1), float64(2), float64(99)}})
	if err != nil {
		t.Fatal(err)
	}
	result, info, err := handler{}.Execute(bag, userRec)
	if err != nil {
		t.Fatal(err)
	}

	expected := map[string]interface{}{
		"1":  []string{"books", "hi-tech"},
		"2":  []string{"pets", "tv"},
		"99": []string{},
	}
	if diff := cmp.Diff(expected, result); diff != "" {
		t.Errorf("Unexpected result (-expected +got):\n%s", diff)
	}
	if info.NClients != 3 {
		t.Errorf("Expected nclients=3, got %d", info.NClients)
	}
}

func TestExecuteStoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mock := mock_store.NewMockInterestsPersistenceInterface(ctrl)
	mock.EXPECT().Get(int64(1)).Return(nil, errors.New("connection lost"))
	swapInterests(t, mock)

	bag, err := handler{}.Validate(map[string]interface{}{
		"client_ids": []interface{}{float64(1)}})
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err = (handler{}).Execute(bag, userRec); err == nil {
		t.Error("Expected the store error to propagate")
	}
}
