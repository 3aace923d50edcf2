package main

import (
	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
	"github.com/swharr/storm-surge/internal/config"
)

func main() {
	customFormatter := new(log.TextFormatter)
	customFormatter.TimestampFormat = "2006-01-02 15:04:05"
	customFormatter.FullTimestamp = true
	log.SetFormatter(customFormatter)

	validatorInst := validator.New()

	configData, err := config.Load(validatorInst)
	if err != nil {
		log.Fatal(err.Error())
	}

	runServer(configData, validatorInst)
}
