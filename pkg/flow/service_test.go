package flow_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/idfront/idfront/pkg/credentials"
	"github.com/idfront/idfront/pkg/flow"
	"github.com/idfront/idfront/pkg/mailer"
	"github.com/idfront/idfront/pkg/securetoken"
	"github.com/idfront/idfront/pkg/userstore"
)

// sentMail is one captured dispatch.
type sentMail struct {
	kind      mailer.Kind
	recipient string
	token     string
}

// captureDispatcher records dispatched mail for assertions. Dispatches
// happen in background goroutines, so assertions go through waitForMail.
type captureDispatcher struct {
	mu   sync.Mutex
	sent []sentMail
}

func (d *captureDispatcher) Send(_ context.Context, kind mailer.Kind, recipient string, payload mailer.Payload) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, sentMail{kind: kind, recipient: recipient, token: payload.Token})
	return nil
}

func (d *captureDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.sent)
}

func (d *captureDispatcher) last() sentMail {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.sent) == 0 {
		return sentMail{}
	}
	return d.sent[len(d.sent)-1]
}

// fixture wires a Service against in-memory collaborators. The issuer and
// user store are real implementations so the tests exercise the actual
// token lifecycle instead of mock choreography.
type fixture struct {
	svc   *flow.Service
	users *userstore.Memory
	issu  *securetoken.Issuer
	guard *credentials.Guard
	mail  *captureDispatcher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	users := userstore.NewMemory()
	issu := securetoken.New(securetoken.NewMemoryStore())
	guard := credentials.New(credentials.WithBcryptCost(bcrypt.MinCost))
	mail := &captureDispatcher{}

	svc := flow.New(users, issu, guard,
		flow.WithMailDispatcher(mail),
		flow.WithMailTimeout(time.Second),
	)

	return &fixture{svc: svc, users: users, issu: issu, guard: guard, mail: mail}
}

// createUser provisions an account with a hashed password directly in the
// store, bypassing the signup flow.
func (f *fixture) createUser(t *testing.T, email, password string) *flow.User {
	t.Helper()

	var hash []byte
	if password != "" {
		var err error
		hash, err = f.guard.Hash(password)
		require.NoError(t, err)
	}

	user, err := f.users.Create(context.Background(), email, hash)
	require.NoError(t, err)
	return user
}

// waitForMail blocks until n dispatches have been captured.
func (f *fixture) waitForMail(t *testing.T, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return f.mail.count() >= n
	}, time.Second, 10*time.Millisecond, "expected %d dispatched mails, got %d", n, f.mail.count())
}

// authenticatedState returns a session authenticated as the given user.
func authenticatedState(user *flow.User) flow.SessionState {
	return flow.SessionState{User: &flow.UserRef{ID: user.ID, Email: user.Email}}
}
