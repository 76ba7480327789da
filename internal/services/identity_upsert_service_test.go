package services

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clinica-bage/app-rx/internal/models"
)

// identityDirectory is an in-memory IdentityLookup + IdentityWriter
type identityDirectory struct {
	mu        sync.Mutex
	byTaxID   map[string]*models.Identity
	lookups   []string
	created   []models.IdentityPayload
	updated   map[string]models.IdentityPayload
	lookupErr error
	writeErr  error
}

func newIdentityDirectory(existing ...models.Identity) *identityDirectory {
	d := &identityDirectory{byTaxID: map[string]*models.Identity{}, updated: map[string]models.IdentityPayload{}}
	for i := range existing {
		d.byTaxID[existing[i].TaxID] = &existing[i]
	}
	return d
}

func (d *identityDirectory) FindByTaxID(ctx context.Context, taxID string) (*models.Identity, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lookups = append(d.lookups, taxID)
	if d.lookupErr != nil {
		return nil, d.lookupErr
	}
	return d.byTaxID[taxID], nil
}

func (d *identityDirectory) CreatePatient(ctx context.Context, token string, payload models.IdentityPayload) (*models.Identity, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.writeErr != nil {
		return nil, d.writeErr
	}
	d.created = append(d.created, payload)
	return &models.Identity{ID: "new-1", TaxID: payload.CPF, Phone: payload.Phone, Email: payload.Email, Role: models.RolePatient}, nil
}

func (d *identityDirectory) UpdatePatient(ctx context.Context, token, id string, payload models.IdentityPayload) (*models.Identity, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.writeErr != nil {
		return nil, d.writeErr
	}
	d.updated[id] = payload
	return &models.Identity{ID: id, Phone: payload.Phone}, nil
}

// sequence returns the given draws in order, then repeats the last one
func sequence(draws ...string) func() string {
	i := 0
	return func() string {
		d := draws[i]
		if i < len(draws)-1 {
			i++
		}
		return d
	}
}

func newTestUpsertService(dir *identityDirectory, gen PlaceholderTaxIDGenerator) *IdentityUpsertService {
	svc := NewIdentityUpsertService(dir, gen, "placeholder", zap.NewNop())
	svc.suffix = func() string { return "abcd1234" }
	return svc
}

var elevenDigits = regexp.MustCompile(`^\d{11}$`)

func TestIdentityUpsert_CreateWithPlaceholders(t *testing.T) {
	dir := newIdentityDirectory()
	svc := NewIdentityUpsertService(dir, nil, "placeholder", zap.NewNop())

	decision, err := svc.Decide(context.Background(), models.IdentityForm{TaxID: "", Phone: "53999999999"}, dir)

	require.NoError(t, err)
	assert.Equal(t, models.UpsertActionCreate, decision.Action)
	assert.True(t, decision.PlaceholderTaxID)
	assert.True(t, decision.PlaceholderEmail)
	assert.Regexp(t, elevenDigits, decision.Payload.CPF)
	assert.Regexp(t, `^patient\d{11}[0-9a-f]{8}@placeholder$`, decision.Payload.Email)
	assert.Contains(t, decision.Payload.Email, decision.Payload.CPF)
	assert.Equal(t, "53999999999", decision.Payload.Phone)
	assert.Equal(t, models.RolePatient, decision.Payload.Role)
	assert.Equal(t, []string{decision.Payload.CPF}, dir.lookups)
}

func TestIdentityUpsert_CreateKeepsSuppliedFields(t *testing.T) {
	dir := newIdentityDirectory()
	svc := newTestUpsertService(dir, nil)

	decision, err := svc.Decide(context.Background(), models.IdentityForm{
		FullName: " Maria da Silva ",
		TaxID:    "529.982.247-25",
		Phone:    "(53) 99999-9999",
		Email:    "maria@example.com",
		Address:  models.Address{PostalCode: "96400-110", Street: "Rua A"},
	}, dir)

	require.NoError(t, err)
	assert.Equal(t, models.UpsertActionCreate, decision.Action)
	assert.False(t, decision.PlaceholderTaxID)
	assert.False(t, decision.PlaceholderEmail)
	assert.Equal(t, models.IdentityPayload{
		Name:    "Maria da Silva",
		CPF:     "52998224725",
		Phone:   "53999999999",
		Email:   "maria@example.com",
		Role:    models.RolePatient,
		Address: &models.Address{PostalCode: "96400110", Street: "Rua A"},
	}, decision.Payload)
}

func TestIdentityUpsert_ShortTaxIDIsReplaced(t *testing.T) {
	dir := newIdentityDirectory()
	gen := &RandomTaxIDGenerator{draw: sequence("11122233344")}
	svc := newTestUpsertService(dir, gen)

	decision, err := svc.Decide(context.Background(), models.IdentityForm{TaxID: "123", Phone: "53999999999"}, dir)

	require.NoError(t, err)
	assert.Equal(t, "11122233344", decision.Payload.CPF)
	assert.Equal(t, "patient11122233344abcd1234@placeholder", decision.Payload.Email)
}

func TestIdentityUpsert_UpdatePatchesPhoneOnly(t *testing.T) {
	dir := newIdentityDirectory(models.Identity{ID: "p-1", TaxID: "52998224725", FullName: "Old Name"})
	svc := newTestUpsertService(dir, nil)

	decision, err := svc.Decide(context.Background(), models.IdentityForm{
		FullName: "New Name",
		TaxID:    "52998224725",
		Phone:    "53988887777",
		Address:  models.Address{Street: "Rua Nova"},
	}, dir)

	require.NoError(t, err)
	assert.Equal(t, models.UpsertActionUpdate, decision.Action)
	assert.Equal(t, "p-1", decision.TargetID)
	assert.Equal(t, models.IdentityPayload{Phone: "53988887777"}, decision.Payload)
}

func TestIdentityUpsert_SkipWithoutPhone(t *testing.T) {
	dir := newIdentityDirectory()
	svc := newTestUpsertService(dir, nil)

	for _, form := range []models.IdentityForm{
		{TaxID: "52998224725"},
		{TaxID: "52998224725", Phone: "  "},
		{FullName: "Maria", Phone: "n/a"},
	} {
		decision, err := svc.Decide(context.Background(), form, dir)
		require.NoError(t, err)
		assert.Equal(t, models.UpsertActionSkip, decision.Action)
	}
	assert.Empty(t, dir.lookups, "skip must not touch the network")
}

func TestIdentityUpsert_RandomPlaceholderCollisionIsNotChecked(t *testing.T) {
	dir := newIdentityDirectory(models.Identity{ID: "someone-else", TaxID: "11122233344"})
	gen := &RandomTaxIDGenerator{draw: sequence("11122233344")}
	svc := newTestUpsertService(dir, gen)

	decision, err := svc.Decide(context.Background(), models.IdentityForm{Phone: "53999999999"}, dir)

	require.NoError(t, err)
	assert.Equal(t, models.UpsertActionUpdate, decision.Action)
	assert.Equal(t, "someone-else", decision.TargetID)
	assert.True(t, decision.PlaceholderTaxID)
}

func TestCheckedTaxIDGenerator(t *testing.T) {
	t.Run("redraws until free", func(t *testing.T) {
		dir := newIdentityDirectory(models.Identity{ID: "a", TaxID: "11111111111"})
		gen := &CheckedTaxIDGenerator{draw: sequence("11111111111", "22222222222"), maxAttempts: 3}

		got, err := gen.Generate(context.Background(), dir)

		require.NoError(t, err)
		assert.Equal(t, "22222222222", got)
		assert.Equal(t, []string{"11111111111", "22222222222"}, dir.lookups)
	})

	t.Run("gives up after bounded attempts", func(t *testing.T) {
		dir := newIdentityDirectory(models.Identity{ID: "a", TaxID: "11111111111"})
		gen := &CheckedTaxIDGenerator{draw: sequence("11111111111"), maxAttempts: 3}

		_, err := gen.Generate(context.Background(), dir)

		assert.ErrorIs(t, err, models.ErrPlaceholderExhaust)
		assert.Len(t, dir.lookups, 3)
	})

	t.Run("lookup error", func(t *testing.T) {
		dir := newIdentityDirectory()
		dir.lookupErr = errors.New("backend down")
		gen := &CheckedTaxIDGenerator{draw: sequence("11111111111"), maxAttempts: 3}

		_, err := gen.Generate(context.Background(), dir)

		assert.ErrorContains(t, err, "backend down")
	})

	t.Run("decision uses the free draw", func(t *testing.T) {
		dir := newIdentityDirectory(models.Identity{ID: "a", TaxID: "11111111111"})
		gen := &CheckedTaxIDGenerator{draw: sequence("11111111111", "22222222222"), maxAttempts: 3}
		svc := newTestUpsertService(dir, gen)

		decision, err := svc.Decide(context.Background(), models.IdentityForm{Phone: "53999999999"}, dir)

		require.NoError(t, err)
		assert.Equal(t, models.UpsertActionCreate, decision.Action)
		assert.Equal(t, "22222222222", decision.Payload.CPF)
	})
}

func TestNewPlaceholderTaxIDGenerator(t *testing.T) {
	assert.Equal(t, "random", NewPlaceholderTaxIDGenerator("random").Name())
	assert.Equal(t, "random", NewPlaceholderTaxIDGenerator("").Name())
	assert.Equal(t, "checked", NewPlaceholderTaxIDGenerator("checked").Name())
	assert.Regexp(t, elevenDigits, randomTaxID())
}

func TestIdentityUpsert_Execute(t *testing.T) {
	t.Run("create", func(t *testing.T) {
		dir := newIdentityDirectory()
		svc := newTestUpsertService(dir, nil)
		decision := models.UpsertDecision{Action: models.UpsertActionCreate, Payload: models.IdentityPayload{CPF: "52998224725", Phone: "53999999999"}}

		outcome := svc.Execute(context.Background(), "tok", decision)

		assert.Empty(t, outcome.Warning)
		require.NotNil(t, outcome.Identity)
		assert.Equal(t, "new-1", outcome.Identity.ID)
		assert.Len(t, dir.created, 1)
	})

	t.Run("update", func(t *testing.T) {
		dir := newIdentityDirectory()
		svc := newTestUpsertService(dir, nil)
		decision := models.UpsertDecision{Action: models.UpsertActionUpdate, TargetID: "p-1", Payload: models.IdentityPayload{Phone: "53999999999"}}

		outcome := svc.Execute(context.Background(), "tok", decision)

		assert.Empty(t, outcome.Warning)
		assert.Equal(t, models.IdentityPayload{Phone: "53999999999"}, dir.updated["p-1"])
	})

	t.Run("skip does nothing", func(t *testing.T) {
		dir := newIdentityDirectory()
		svc := newTestUpsertService(dir, nil)

		outcome := svc.Execute(context.Background(), "tok", models.UpsertDecision{Action: models.UpsertActionSkip})

		assert.Nil(t, outcome.Identity)
		assert.Empty(t, outcome.Warning)
		assert.Empty(t, dir.created)
		assert.Empty(t, dir.updated)
	})

	t.Run("failure becomes a warning", func(t *testing.T) {
		dir := newIdentityDirectory()
		dir.writeErr = errors.New("502 bad gateway")
		svc := newTestUpsertService(dir, nil)

		outcome := svc.Execute(context.Background(), "tok", models.UpsertDecision{Action: models.UpsertActionCreate})

		assert.Nil(t, outcome.Identity)
		assert.Contains(t, outcome.Warning, "create failed")
		assert.Contains(t, outcome.Warning, "502 bad gateway")
	})
}

func TestIdentityUpsert_RunNeverFails(t *testing.T) {
	dir := newIdentityDirectory()
	dir.lookupErr = errors.New("timeout")
	svc := newTestUpsertService(dir, nil)

	outcome := svc.Run(context.Background(), "tok", models.IdentityForm{TaxID: "52998224725", Phone: "53999999999"}, dir)

	assert.Equal(t, models.UpsertActionSkip, outcome.Decision.Action)
	assert.Contains(t, outcome.Warning, "timeout")
	assert.Empty(t, dir.created)
}

func TestIdentityUpsert_RunCreates(t *testing.T) {
	dir := newIdentityDirectory()
	svc := newTestUpsertService(dir, nil)

	outcome := svc.Run(context.Background(), "tok", models.IdentityForm{Phone: "53999999999"}, dir)

	assert.Equal(t, models.UpsertActionCreate, outcome.Decision.Action)
	require.NotNil(t, outcome.Identity)
	require.Len(t, dir.created, 1)
	assert.Regexp(t, elevenDigits, dir.created[0].CPF)
}
