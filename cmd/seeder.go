package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm/clause"

	"github.com/frahmantamala/civic-issue-tracker/internal"
	userDatamodel "github.com/frahmantamala/civic-issue-tracker/internal/core/datamodel/user"
)

var (
	seedAdmins []string
	seedStaff  []string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create or promote admin and staff accounts",
	Long:  `Create the given admin and staff accounts, promoting them if they already exist. Nothing else about an existing account changes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.SQL.Close()

		seed := func(email string, role internal.Role) {
			now := time.Now().UTC()
			row := &userDatamodel.User{
				Email:     email,
				Role:      string(role),
				CreatedAt: now,
				UpdatedAt: now,
			}
			err := db.Gorm.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "email"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"role":       string(role),
					"updated_at": now,
				}),
			}).Create(row).Error
			if err != nil {
				log.Fatalf("failed to seed %s %s: %v", role, email, err)
			}
			fmt.Printf("Seeded %s user: %s\n", role, email)
		}

		for _, email := range seedAdmins {
			seed(email, internal.RoleAdmin)
		}
		for _, email := range seedStaff {
			seed(email, internal.RoleStaff)
		}
	},
}

func init() {
	seedCmd.Flags().StringSliceVar(&seedAdmins, "admin", []string{"admin@civic.local"}, "admin account emails")
	seedCmd.Flags().StringSliceVar(&seedStaff, "staff", []string{"staff@civic.local"}, "staff account emails")
}
