package main

import (
	"context"
	"os"

	"growyourdough/cmd"
	"growyourdough/internal/logger"
	"growyourdough/internal/util"
)

func main() {
	log := logger.FromContext(context.Background())
	log.Infow("starting api", "commitHash", os.Getenv("commit_hash"))

	secrets, err := util.LoadSecrets()
	if err != nil {
		log.Fatalw("failed to load secrets", "error", err)
	}
	apiHandler, err := cmd.InitializeDependenciesFromSecrets(context.Background(), *secrets)
	if err != nil {
		log.Fatalw("failed to initialize dependencies", "error", err)
	}
	defer cmd.CloseDependencies(apiHandler)

	err = apiHandler.StartApi(secrets.Port)
	if err != nil {
		log.Fatalw("api stopped", "error", err)
	}
}
