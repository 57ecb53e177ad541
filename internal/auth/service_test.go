package auth

import (
	"sync"
	"testing"
	"time"

	"github.com/sami992010/ProBTC/internal/journal"
	"github.com/sami992010/ProBTC/internal/ledger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fixedFeed struct {
	mu sync.Mutex
}

func (f *fixedFeed) Snapshot() (decimal.Decimal, int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return decimal.RequireFromString("1.1000"), 1
}

func newTestService(t *testing.T) (*Service, *ledger.Ledger) {
	t.Helper()
	book := ledger.New(&fixedFeed{}, journal.NewDisabled(), ledger.Config{
		ContractSize:    decimal.RequireFromString("100000"),
		MarginRate:      decimal.RequireFromString("0.01"),
		StartingBalance: decimal.RequireFromString("10000"),
	})
	svc := NewService(book, "probtc-test", []byte("test-secret"), time.Hour)
	return svc, book
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestService(t)

	u, err := svc.Register("alice", "s3cret")
	require.NoError(t, err)
	require.False(t, u.IsAdmin)
	require.NotEqual(t, "s3cret", u.PasswordHash)

	token, err := svc.Login("alice", "s3cret")
	require.NoError(t, err)

	id, err := svc.ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, u.ID, id.UserID)
	require.False(t, id.IsAdmin)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register("", "pw")
	require.Error(t, err)
	_, err = svc.Register("alice", "")
	require.Error(t, err)

	_, err = svc.Register("alice", "pw")
	require.NoError(t, err)
	_, err = svc.Register("alice", "other")
	require.ErrorIs(t, err, ledger.ErrUsernameTaken)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Register("alice", "s3cret")
	require.NoError(t, err)

	_, err = svc.Login("alice", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login("nobody", "s3cret")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAdminClaim(t *testing.T) {
	svc, book := newTestService(t)
	admin, err := book.CreateUser("root", mustHash(t, "adminpw"), true)
	require.NoError(t, err)

	token, err := svc.Login("root", "adminpw")
	require.NoError(t, err)
	id, err := svc.ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, admin.ID, id.UserID)
	require.True(t, id.IsAdmin)
}

func TestParseTokenRejectsGarbageAndForeignIssuer(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.ParseToken("not-a-token")
	require.Error(t, err)

	other, book := newTestService(t)
	_ = book
	other.issuer = "someone-else"
	_, err = other.Register("alice", "pw")
	require.NoError(t, err)
	token, err := other.Login("alice", "pw")
	require.NoError(t, err)
	_, err = svc.ParseToken(token)
	require.Error(t, err)
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	svc, _ := newTestService(t)
	u, err := svc.Register("hashprobe", password)
	require.NoError(t, err)
	return u.PasswordHash
}
