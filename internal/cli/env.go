package cli

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds defaults read from the environment. Flags override them.
type Env struct {
	DB              string `env:"TOERIG_DB" envDefault:"toerig.db"`
	OutputContainer string `env:"TOERIG_OUTPUT_CONTAINER"`
	Format          string `env:"TOERIG_FORMAT" envDefault:"text"`
}

// LoadEnv parses Env from the process environment.
func LoadEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}
