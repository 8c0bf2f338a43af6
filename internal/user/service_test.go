package user_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/civic-issue-tracker/internal"
	"github.com/frahmantamala/civic-issue-tracker/internal/auth"
	"github.com/frahmantamala/civic-issue-tracker/internal/testsupport"
	"github.com/frahmantamala/civic-issue-tracker/internal/user"
	"github.com/frahmantamala/civic-issue-tracker/internal/user/postgres"
	"github.com/frahmantamala/civic-issue-tracker/pkg/logger"
)

var _ = Describe("User Service", func() {
	var (
		ctx     context.Context
		service *user.Service
		admin   *internal.Principal
	)

	BeforeEach(func() {
		ctx = context.Background()
		db, err := testsupport.NewSQLite()
		Expect(err).NotTo(HaveOccurred())
		service = user.NewService(postgres.NewUserRepository(db), logger.Discard())
		admin = &internal.Principal{Email: "admin@example.com", Role: internal.RoleAdmin}
	})

	Describe("EnsureUser", func() {
		It("should provision a citizen on first sight", func() {
			p, err := service.EnsureUser(ctx, auth.Identity{Email: "first@example.com", Subject: "sub-1", Name: "First"})
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Email).To(Equal("first@example.com"))
			Expect(p.Subject).To(Equal("sub-1"))
			Expect(p.Role).To(Equal(internal.RoleCitizen))
			Expect(p.IsBlocked).To(BeFalse())
		})

		It("should never overwrite an existing account", func() {
			// Given
			_, err := service.EnsureUser(ctx, auth.Identity{Email: "staffer@example.com", Name: "Original"})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.SetRole(ctx, admin, "staffer@example.com", user.SetRoleDTO{Role: "staff"})
			Expect(err).NotTo(HaveOccurred())

			// When
			p, err := service.EnsureUser(ctx, auth.Identity{Email: "staffer@example.com", Name: "Changed"})

			// Then
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Role).To(Equal(internal.RoleStaff))
			u, err := service.GetByEmail(ctx, "staffer@example.com")
			Expect(err).NotTo(HaveOccurred())
			Expect(u.Name).To(Equal("Original"))
		})
	})

	Describe("Register", func() {
		It("should report whether the account was created", func() {
			u, created, err := service.Register(ctx, user.RegisterUserDTO{Email: "reg@example.com", Name: "Reg"})
			Expect(err).NotTo(HaveOccurred())
			Expect(created).To(BeTrue())
			Expect(u.Role).To(Equal(internal.RoleCitizen))

			_, created, err = service.Register(ctx, user.RegisterUserDTO{Email: "reg@example.com"})
			Expect(err).NotTo(HaveOccurred())
			Expect(created).To(BeFalse())
		})

		It("should reject a malformed email", func() {
			_, _, err := service.Register(ctx, user.RegisterUserDTO{Email: "not-an-email"})
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})
	})

	Describe("GetByEmail", func() {
		It("should return not found for unknown accounts", func() {
			_, err := service.GetByEmail(ctx, "ghost@example.com")
			Expect(err).To(MatchError(user.ErrNotFound))
		})
	})

	Describe("FindStaff", func() {
		It("should only return accounts holding the staff role", func() {
			_, _, err := service.Register(ctx, user.RegisterUserDTO{Email: "citizen@example.com"})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.FindStaff(ctx, "citizen@example.com")
			Expect(err).To(MatchError(user.ErrNotFound))

			_, err = service.SetRole(ctx, admin, "citizen@example.com", user.SetRoleDTO{Role: "staff"})
			Expect(err).NotTo(HaveOccurred())

			u, err := service.FindStaff(ctx, "citizen@example.com")
			Expect(err).NotTo(HaveOccurred())
			Expect(u.Role).To(Equal(internal.RoleStaff))
		})
	})

	Describe("List", func() {
		BeforeEach(func() {
			for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
				_, _, err := service.Register(ctx, user.RegisterUserDTO{Email: email})
				Expect(err).NotTo(HaveOccurred())
			}
			_, err := service.SetRole(ctx, admin, "b@example.com", user.SetRoleDTO{Role: "staff"})
			Expect(err).NotTo(HaveOccurred())
		})

		It("should list every account without a filter", func() {
			users, err := service.List(ctx, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(users).To(HaveLen(3))
		})

		It("should filter by role", func() {
			users, err := service.List(ctx, "staff")
			Expect(err).NotTo(HaveOccurred())
			Expect(users).To(HaveLen(1))
			Expect(users[0].Email).To(Equal("b@example.com"))
		})

		It("should reject an unknown role", func() {
			_, err := service.List(ctx, "mayor")
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})
	})

	Describe("account flags", func() {
		BeforeEach(func() {
			_, _, err := service.Register(ctx, user.RegisterUserDTO{Email: "flag@example.com"})
			Expect(err).NotTo(HaveOccurred())
		})

		It("should block and unblock an account", func() {
			yes, no := true, false
			u, err := service.SetBlocked(ctx, admin, "flag@example.com", user.SetBlockedDTO{IsBlocked: &yes})
			Expect(err).NotTo(HaveOccurred())
			Expect(u.IsBlocked).To(BeTrue())

			u, err = service.SetBlocked(ctx, admin, "flag@example.com", user.SetBlockedDTO{IsBlocked: &no})
			Expect(err).NotTo(HaveOccurred())
			Expect(u.IsBlocked).To(BeFalse())
		})

		It("should require the block flag", func() {
			_, err := service.SetBlocked(ctx, admin, "flag@example.com", user.SetBlockedDTO{})
			Expect(err).To(HaveOccurred())
		})

		It("should set premium", func() {
			u, err := service.SetPremium(ctx, "flag@example.com")
			Expect(err).NotTo(HaveOccurred())
			Expect(u.IsPremium).To(BeTrue())
		})

		It("should reject an invalid role", func() {
			_, err := service.SetRole(ctx, admin, "flag@example.com", user.SetRoleDTO{Role: "superuser"})
			Expect(err).To(HaveOccurred())
		})

		It("should return not found when the account is missing", func() {
			_, err := service.SetRole(ctx, admin, "ghost@example.com", user.SetRoleDTO{Role: "staff"})
			Expect(err).To(MatchError(user.ErrNotFound))
		})
	})

	Describe("UpdateProfile", func() {
		It("should update only the provided fields", func() {
			_, _, err := service.Register(ctx, user.RegisterUserDTO{Email: "p@example.com", Name: "Old", Image: "old.png"})
			Expect(err).NotTo(HaveOccurred())

			name := "New"
			u, err := service.UpdateProfile(ctx, "p@example.com", user.UpdateProfileDTO{Name: &name})
			Expect(err).NotTo(HaveOccurred())
			Expect(u.Name).To(Equal("New"))
			Expect(u.Image).To(Equal("old.png"))
		})

		It("should reject an empty update", func() {
			_, err := service.UpdateProfile(ctx, "p@example.com", user.UpdateProfileDTO{})
			Expect(err).To(HaveOccurred())
		})
	})
})
