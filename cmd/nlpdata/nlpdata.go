package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"kubegems.io/nlpdata/cmd/nlpdata/data"
	nlperrors "kubegems.io/nlpdata/pkg/errors"
)

const EnvFile = "NLPDATA_ENV_FILE"

func main() {
	if err := loadEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(nlperrors.ExitCodeGeneric)
	}
	if err := data.NewDataCmd().Execute(); err != nil {
		os.Exit(nlperrors.ExitCode(err))
	}
}

// loadEnv seeds the environment from a dotenv file before flag defaults are read.
// Variables already set take precedence.
func loadEnv() error {
	filename, explicit := os.LookupEnv(EnvFile)
	if !explicit || filename == "" {
		filename = ".env"
	}
	if err := godotenv.Load(filename); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return nlperrors.NewConfigInvalidError(fmt.Sprintf("load env file %s: %v", filename, err))
	}
	return nil
}
