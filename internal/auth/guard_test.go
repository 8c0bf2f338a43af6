package auth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/civic-issue-tracker/internal"
	"github.com/frahmantamala/civic-issue-tracker/internal/auth"
	"github.com/frahmantamala/civic-issue-tracker/pkg/logger"
)

var _ = Describe("Authorization checks", func() {
	citizen := &internal.Principal{Email: "citizen@example.com", Role: internal.RoleCitizen}
	staff := &internal.Principal{Email: "staff@example.com", Role: internal.RoleStaff}
	admin := &internal.Principal{Email: "admin@example.com", Role: internal.RoleAdmin}
	blocked := &internal.Principal{Email: "blocked@example.com", Role: internal.RoleCitizen, IsBlocked: true}

	Describe("RequireAuth", func() {
		It("should reject a nil principal", func() {
			Expect(auth.RequireAuth()(nil)).To(MatchError(internal.ErrUnauthenticated))
		})

		It("should pass any principal", func() {
			Expect(auth.RequireAuth()(blocked)).To(Succeed())
		})
	})

	Describe("RequireRole", func() {
		It("should match roles exactly", func() {
			Expect(auth.RequireRole(internal.RoleAdmin)(admin)).To(Succeed())
			Expect(auth.RequireRole(internal.RoleStaff)(staff)).To(Succeed())
		})

		It("should not treat admin as a superset of staff", func() {
			Expect(auth.RequireRole(internal.RoleStaff)(admin)).To(MatchError(internal.ErrRoleRequired))
		})

		It("should reject a citizen from admin routes", func() {
			Expect(auth.RequireRole(internal.RoleAdmin)(citizen)).To(MatchError(internal.ErrRoleRequired))
		})
	})

	Describe("RequireNotBlocked", func() {
		It("should reject blocked accounts", func() {
			Expect(auth.RequireNotBlocked()(blocked)).To(MatchError(internal.ErrUserBlocked))
		})

		It("should pass active accounts", func() {
			Expect(auth.RequireNotBlocked()(citizen)).To(Succeed())
		})
	})

	Describe("RequireOwnerOrRole", func() {
		It("should pass the owner", func() {
			Expect(auth.RequireOwnerOrRole(citizen.Email, internal.RoleAdmin)(citizen)).To(Succeed())
		})

		It("should pass the privileged role", func() {
			Expect(auth.RequireOwnerOrRole(citizen.Email, internal.RoleAdmin)(admin)).To(Succeed())
		})

		It("should reject everyone else", func() {
			Expect(auth.RequireOwnerOrRole(citizen.Email, internal.RoleAdmin)(staff)).To(MatchError(internal.ErrNotOwner))
		})

		It("should not match an empty owner", func() {
			anon := &internal.Principal{Role: internal.RoleCitizen}
			Expect(auth.RequireOwnerOrRole("", internal.RoleAdmin)(anon)).To(MatchError(internal.ErrNotOwner))
		})
	})

	Describe("RequireSelf", func() {
		It("should reject admins acting on other accounts", func() {
			Expect(auth.RequireSelf(citizen.Email)(admin)).To(MatchError(internal.ErrNotOwner))
		})

		It("should pass the account holder", func() {
			Expect(auth.RequireSelf(citizen.Email)(citizen)).To(Succeed())
		})
	})

	Describe("Evaluate", func() {
		It("should return the first failing check", func() {
			err := auth.Evaluate(blocked, auth.RequireRole(internal.RoleAdmin), auth.RequireNotBlocked())
			Expect(err).To(MatchError(internal.ErrRoleRequired))
		})

		It("should pass when every check passes", func() {
			Expect(auth.Evaluate(admin, auth.RequireAuth(), auth.RequireRole(internal.RoleAdmin))).To(Succeed())
		})
	})
})

type fakeVerifier struct {
	identity *auth.Identity
	err      error
	calls    int
}

func (f *fakeVerifier) Verify(token string) (*auth.Identity, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.identity, nil
}

type fakeProvisioner struct {
	principals map[string]*internal.Principal
	err        error
	created    int
}

func (f *fakeProvisioner) EnsureUser(ctx context.Context, id auth.Identity) (*internal.Principal, error) {
	if f.err != nil {
		return nil, f.err
	}
	if p, ok := f.principals[id.Email]; ok {
		return p, nil
	}
	f.created++
	p := &internal.Principal{Email: id.Email, Subject: id.Subject, Role: internal.RoleCitizen}
	f.principals[id.Email] = p
	return p, nil
}

var _ = Describe("Resolver", func() {
	var (
		verifier    *fakeVerifier
		provisioner *fakeProvisioner
		resolver    *auth.Resolver
	)

	BeforeEach(func() {
		verifier = &fakeVerifier{identity: &auth.Identity{Email: "new@example.com", Subject: "sub-new"}}
		provisioner = &fakeProvisioner{principals: map[string]*internal.Principal{
			"admin@example.com": {Email: "admin@example.com", Role: internal.RoleAdmin},
		}}
		resolver = auth.NewResolver(verifier, provisioner, logger.Discard())
	})

	Describe("Resolve", func() {
		It("should reject an empty credential without calling the verifier", func() {
			_, err := resolver.Resolve(context.Background(), "")
			Expect(err).To(MatchError(internal.ErrMissingToken))
			Expect(verifier.calls).To(BeZero())
		})

		It("should provision a citizen on first sight", func() {
			p, err := resolver.Resolve(context.Background(), "token")
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Email).To(Equal("new@example.com"))
			Expect(p.Role).To(Equal(internal.RoleCitizen))
			Expect(provisioner.created).To(Equal(1))

			_, err = resolver.Resolve(context.Background(), "token")
			Expect(err).NotTo(HaveOccurred())
			Expect(provisioner.created).To(Equal(1))
		})

		It("should return the stored role for known accounts", func() {
			verifier.identity = &auth.Identity{Email: "admin@example.com"}
			p, err := resolver.Resolve(context.Background(), "token")
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Role).To(Equal(internal.RoleAdmin))
		})

		It("should surface verifier failures", func() {
			verifier.err = internal.ErrTokenExpired
			_, err := resolver.Resolve(context.Background(), "token")
			Expect(err).To(MatchError(internal.ErrTokenExpired))
		})

		It("should surface directory failures", func() {
			provisioner.err = errors.New("db down")
			_, err := resolver.Resolve(context.Background(), "token")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("middleware", func() {
		var seen *internal.Principal

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = internal.PrincipalFromContext(r.Context())
			w.WriteHeader(http.StatusNoContent)
		})

		BeforeEach(func() {
			seen = nil
		})

		It("should respond 401 without a bearer token", func() {
			// Given
			req := httptest.NewRequest(http.MethodGet, "/issues/1", nil)
			rec := httptest.NewRecorder()

			// When
			resolver.Authenticate(next).ServeHTTP(rec, req)

			// Then
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
			Expect(seen).To(BeNil())
		})

		It("should attach the principal for a valid token", func() {
			req := httptest.NewRequest(http.MethodGet, "/issues/1", nil)
			req.Header.Set("Authorization", "Bearer good-token")
			rec := httptest.NewRecorder()

			resolver.Authenticate(next).ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusNoContent))
			Expect(seen).NotTo(BeNil())
			Expect(seen.Email).To(Equal("new@example.com"))
		})

		It("should respond 403 when a role check fails", func() {
			req := httptest.NewRequest(http.MethodGet, "/payments", nil)
			req.Header.Set("Authorization", "Bearer good-token")
			rec := httptest.NewRecorder()

			handler := resolver.Authenticate(resolver.Require(auth.RequireRole(internal.RoleAdmin))(next))
			handler.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusForbidden))
			Expect(seen).To(BeNil())
		})

		It("should build checks from the request", func() {
			req := httptest.NewRequest(http.MethodGet, "/users/new@example.com", nil)
			req.Header.Set("Authorization", "Bearer good-token")
			rec := httptest.NewRecorder()

			owner := resolver.RequireFor(func(r *http.Request) []auth.Check {
				return []auth.Check{auth.RequireSelf("new@example.com")}
			})
			resolver.Authenticate(owner(next)).ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusNoContent))
		})
	})
})
