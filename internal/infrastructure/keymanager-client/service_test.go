package keymanagerclient

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keysafe-network/keysafe-daemon/internal/core/domain"
	"github.com/keysafe-network/keysafe-daemon/internal/core/ports"
)

var ctx = context.Background()

// newStubbedService returns a service whose round trip is served by the given
// handler instead of a live connection.
func newStubbedService(
	handler func(req request) response,
) *service {
	svc := newService("Keysafe")
	svc.send = func(_ context.Context, req request) (response, error) {
		return handler(req), nil
	}
	return svc
}

func respondJSON(t *testing.T, payload string) func(request) response {
	t.Helper()
	return func(req request) response {
		return response{ID: req.ID, Result: json.RawMessage(payload)}
	}
}

func respondError(kind, message string) func(request) response {
	return func(req request) response {
		return response{ID: req.ID, Error: &wireError{
			Kind:    kind,
			Message: message,
		}}
	}
}

func TestListDecodesRecords(t *testing.T) {
	svc := newStubbedService(respondJSON(t, `[
		{
			"id": "LEGACY", "label": "", "type": "legacy",
			"accounts": [{"address": "addr1", "label": "Old account"}]
		},
		{
			"id": "w1", "label": "Blue Wallet", "type": "bip39",
			"hasFile": true, "hasWords": false,
			"accounts": [
				{"address": "addr2", "label": "Main"},
				{"address": "addr3", "label": "Savings"}
			]
		}
	]`))

	records, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "LEGACY", records[0].ID)
	assert.Equal(t, domain.WalletTypeLegacy, records[0].Type)
	assert.Len(t, records[0].Accounts, 1)

	assert.Equal(t, "w1", records[1].ID)
	assert.Equal(t, domain.WalletTypeBIP39, records[1].Type)
	assert.True(t, records[1].HasFile)
	assert.False(t, records[1].HasWords)
	assert.Len(t, records[1].Accounts, 2)
}

func TestListRejectsUnknownWalletType(t *testing.T) {
	svc := newStubbedService(respondJSON(t,
		`[{"id": "w1", "type": "carrier-pigeon", "accounts": []}]`,
	))

	_, err := svc.List(ctx)
	assert.Error(t, err)
}

func TestFlowResultToleratesWalletIdKey(t *testing.T) {
	// Flow results carry walletId where the listing carries id.
	svc := newStubbedService(respondJSON(t, `{
		"walletId": "w9", "label": "Fresh", "type": "bip39",
		"accounts": [{"address": "addr9", "label": "First"}]
	}`))

	record, err := svc.Onboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, "w9", record.ID)
	assert.Equal(t, "Fresh", record.Label)
}

func TestLogoutDecodesSuccessFlag(t *testing.T) {
	svc := newStubbedService(respondJSON(t, `{"success": false}`))

	ok, err := svc.Logout(ctx, "w1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAddAccountDecodesAccount(t *testing.T) {
	svc := newStubbedService(respondJSON(t,
		`{"account": {"address": "addr7", "label": "New one"}}`,
	))

	account, err := svc.AddAccount(ctx, "w1")
	require.NoError(t, err)
	assert.Equal(t, "addr7", account.Address)
	assert.Equal(t, "New one", account.Label)
}

func TestWireErrorTaxonomy(t *testing.T) {
	tests := []struct {
		kind  string
		check func(error) bool
	}{
		{wireKindCanceled, ports.IsCanceled},
		{wireKindMigrationRequired, ports.IsMigrationRequired},
		{wireKindWalletsLost, ports.IsDataLost},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			svc := newStubbedService(respondError(tt.kind, "nope"))
			_, err := svc.List(ctx)
			require.Error(t, err)
			assert.True(t, tt.check(err))
		})
	}
}

func TestUnknownWireErrorBecomesServiceError(t *testing.T) {
	svc := newStubbedService(respondError("EXPLODED", "something went wrong"))

	_, err := svc.List(ctx)
	require.Error(t, err)

	svcErr, ok := err.(*ports.ServiceError)
	require.True(t, ok)
	assert.Equal(t, "list", svcErr.Op)
	assert.Equal(t, "EXPLODED", svcErr.Code)
	assert.False(t, ports.IsBusy(err))
}

func TestConcurrentSameOperationIsRejectedBusy(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	svc := newService("Keysafe")
	svc.send = func(_ context.Context, req request) (response, error) {
		once.Do(func() {
			close(started)
			<-release
		})
		return response{ID: req.ID, Result: json.RawMessage(`[]`)}, nil
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := svc.List(ctx)
		assert.NoError(t, err)
	}()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("first request never reached the transport")
	}

	_, err := svc.List(ctx)
	require.Error(t, err)
	assert.True(t, ports.IsBusy(err))

	close(release)
	wg.Wait()

	// The slot is free again once the first request settled.
	_, err = svc.List(ctx)
	assert.NoError(t, err)
}

func TestDifferentOperationsRunConcurrently(t *testing.T) {
	block := make(chan struct{})
	svc := newService("Keysafe")
	svc.send = func(_ context.Context, req request) (response, error) {
		if req.Operation == "list" {
			<-block
		}
		return response{ID: req.ID, Result: json.RawMessage(`{}`)}, nil
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		svc.List(ctx)
	}()

	err := svc.ChangePassphrase(ctx, "w1")
	assert.NoError(t, err)

	close(block)
	wg.Wait()
}

func TestFailPendingNeverBlocksOnSettledRequests(t *testing.T) {
	svc := newService("Keysafe")

	// A request whose answer already landed but whose waiter bailed out on
	// its context leaves a full one-slot buffer behind.
	settled := make(chan response, 1)
	settled <- response{ID: "settled"}
	svc.pending["settled"] = settled
	waiting := make(chan response, 1)
	svc.pending["waiting"] = waiting

	done := make(chan struct{})
	go func() {
		svc.failPending(errors.New("connection reset"))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("failPending blocked on a settled request")
	}

	resp := <-waiting
	require.NotNil(t, resp.Error)
	assert.Equal(t, "CHANNEL_CLOSED", resp.Error.Kind)
}

func TestRequestsCarryAppNameAndUniqueIDs(t *testing.T) {
	var seen []request
	svc := newStubbedService(func(req request) response {
		seen = append(seen, req)
		return response{ID: req.ID, Result: json.RawMessage(`{}`)}
	})

	require.NoError(t, svc.ChangePassphrase(ctx, "w1"))
	require.NoError(t, svc.ChangePassphrase(ctx, "w1"))

	require.Len(t, seen, 2)
	assert.NotEqual(t, seen[0].ID, seen[1].ID)
	for _, req := range seen {
		params, ok := req.Params.(operationParams)
		require.True(t, ok)
		assert.Equal(t, "Keysafe", params.AppName)
		assert.Equal(t, "w1", params.WalletID)
	}
}
