package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"dog-walk-service/internal/domain/dogs"
	"dog-walk-service/internal/domain/users"
	"dog-walk-service/internal/domain/walks"
	"dog-walk-service/internal/ports/auth"

	"gopkg.in/yaml.v3"
)

type Fixture struct {
	Users []UserFixture `yaml:"users"`
}

type UserFixture struct {
	Username string       `yaml:"username"`
	Email    string       `yaml:"email"`
	Password string       `yaml:"password"`
	Role     string       `yaml:"role"`
	Dogs     []DogFixture `yaml:"dogs"`
}

type DogFixture struct {
	Name  string        `yaml:"name"`
	Size  string        `yaml:"size"`
	Walks []WalkFixture `yaml:"walks"`
}

type WalkFixture struct {
	At       time.Time `yaml:"at"`
	Duration int       `yaml:"duration_minutes"`
	Location string    `yaml:"location"`
}

func decodeFixture(r io.Reader) (Fixture, error) {
	var fx Fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fx); err != nil {
		return Fixture{}, fmt.Errorf("seed: decode fixture: %w", err)
	}
	if len(fx.Users) == 0 {
		return Fixture{}, errors.New("seed: fixture has no users")
	}
	for i, u := range fx.Users {
		if strings.TrimSpace(u.Username) == "" {
			return Fixture{}, fmt.Errorf("seed: users[%d]: username is required", i)
		}
		if len(u.Dogs) > 0 && u.Role != string(auth.RoleOwner) {
			return Fixture{}, fmt.Errorf("seed: user %q has dogs but is not an owner", u.Username)
		}
	}
	return fx, nil
}

type services struct {
	users *users.Service
	dogs  *dogs.Service
	walks *walks.Service
}

type result struct {
	Users, Skipped, Dogs, Walks int
}

// apply crea todo a través de los services. Usuarios ya existentes se saltean
// junto con sus perros, así el seed se puede correr más de una vez.
func apply(ctx context.Context, svc services, fx Fixture) (result, error) {
	var res result
	for _, uf := range fx.Users {
		u, err := svc.users.Signup(ctx, users.SignupInput{
			Username: uf.Username,
			Email:    uf.Email,
			Password: uf.Password,
			Role:     uf.Role,
		})
		if errors.Is(err, users.ErrConflict) {
			res.Skipped++
			continue
		}
		if err != nil {
			return res, fmt.Errorf("seed: user %q: %w", uf.Username, err)
		}
		res.Users++

		owner := u.Claims()
		for _, df := range uf.Dogs {
			d, err := svc.dogs.Create(ctx, owner, dogs.CreateInput{Name: df.Name, Size: df.Size})
			if err != nil {
				return res, fmt.Errorf("seed: dog %q: %w", df.Name, err)
			}
			res.Dogs++

			for _, wf := range df.Walks {
				_, err := svc.walks.CreateRequest(ctx, walks.CallerFrom(owner), walks.CreateRequestInput{
					DogID:           d.ID,
					RequestedAt:     wf.At,
					DurationMinutes: wf.Duration,
					Location:        wf.Location,
				})
				if err != nil {
					return res, fmt.Errorf("seed: walk for %q: %w", df.Name, err)
				}
				res.Walks++
			}
		}
	}
	return res, nil
}
