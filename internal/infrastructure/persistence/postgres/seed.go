package postgres

import (
	"context"
	"fmt"

	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/scoring"
	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// STARTUP SEEDING
// Reference data the application expects: the role table and the level
// ladder. Every insert is insert-if-absent, so seeding runs on every
// startup without touching existing rows.
// ══════════════════════════════════════════════════════════════════════════════

// Seeder populates reference data.
type Seeder struct {
	conn  *Connection
	tiers *TierRepository
}

// NewSeeder creates a new Seeder.
func NewSeeder(conn *Connection) *Seeder {
	return &Seeder{
		conn:  conn,
		tiers: NewTierRepository(conn),
	}
}

// Seed inserts roles and the default level ladder if absent.
func (s *Seeder) Seed(ctx context.Context) error {
	if err := s.seedRoles(ctx); err != nil {
		return err
	}
	if err := s.tiers.Seed(ctx, scoring.DefaultTiers()); err != nil {
		return fmt.Errorf("seed levels: %w", err)
	}
	return nil
}

func (s *Seeder) seedRoles(ctx context.Context) error {
	roles := []struct {
		id   user.Role
		name string
	}{
		{user.RoleStudent, "student"},
		{user.RoleTeacher, "teacher"},
		{user.RoleAdmin, "admin"},
	}

	for _, role := range roles {
		_, err := s.conn.Exec(ctx, `
			INSERT INTO user_roles (id, name)
			VALUES ($1, $2)
			ON CONFLICT (id) DO NOTHING
		`, int(role.id), role.name)
		if err != nil {
			return fmt.Errorf("seed role %q: %w", role.name, err)
		}
	}
	return nil
}
