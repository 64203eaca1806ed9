package main

import (
	"log"

	"github.com/todor147/EduCoachBack/internal/config"
	"github.com/todor147/EduCoachBack/internal/database"
	"github.com/todor147/EduCoachBack/internal/repository"
	"github.com/todor147/EduCoachBack/internal/tasks"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.DBUrl == "" {
		log.Fatal("DB_URL is required")
	}
	if err := database.ConnectDB(cfg.DBUrl); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB()

	userRepo := repository.NewUserRepository(database.DB)

	var mailer tasks.Mailer
	if cfg.SMTPHost != "" {
		mailer = tasks.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
	} else {
		log.Println("SMTP_HOST not set, logging notification emails instead of sending")
		mailer = tasks.LogMailer{}
	}

	processor := tasks.NewProcessor(userRepo, mailer)
	srv, mux := tasks.SetupServer(cfg.RedisAddr, processor)

	log.Printf("Worker starting, redis at %s", cfg.RedisAddr)
	if err := srv.Run(mux); err != nil {
		log.Fatalf("Worker failed: %v", err)
	}
}
