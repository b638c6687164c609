package main

import (
	"context"
	"log"

	"finexa/internal/domain/linking"
	"finexa/internal/infrastructure/bankdata"
	"finexa/internal/infrastructure/crypto"
	"finexa/internal/infrastructure/identity"
	"finexa/internal/infrastructure/payments"
	"finexa/internal/infrastructure/records"
	httphandlers "finexa/internal/interfaces/http"
	"finexa/internal/shared/config"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	Records *records.Store

	// Handlers
	AuthHandler    *httphandlers.AuthHandler
	LinkingHandler *httphandlers.LinkingHandler

	// Orchestrator (also the auth middleware's user resolver)
	Linking *linking.Service
}

// NewDependencies initializes all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	// Initialize encryptor
	encryptor, err := crypto.NewEncryptor(cfg.Encryption.Key)
	if err != nil {
		return nil, err
	}

	// Connect to the record store
	recordStore, err := records.New(ctx,
		cfg.Records.ProjectID,
		cfg.Records.CredentialsFile,
		cfg.Records.UserCollection,
		cfg.Records.BankCollection,
	)
	if err != nil {
		return nil, err
	}
	log.Println("Connected to record store")

	// Initialize external service clients
	identityClient := identity.NewClient(cfg.Identity.Endpoint, cfg.Identity.ProjectID, cfg.Identity.APIKey)
	bankdataClient := bankdata.NewClient(cfg.BankData.BaseURL, cfg.BankData.ClientID, cfg.BankData.Secret)
	paymentsClient := payments.NewClient(cfg.Payments.BaseURL, cfg.Payments.Key, cfg.Payments.Secret)

	// Initialize the linking orchestrator
	linkingService := linking.NewService(
		identityClient,
		bankdataClient,
		paymentsClient,
		recordStore,
		encryptor,
		linking.Settings{
			UserCollection:   cfg.Records.UserCollection,
			BankCollection:   cfg.Records.BankCollection,
			LinkTokenFailure: linking.FailureMode(cfg.Linking.LinkTokenFailureMode),
			AccountViewTTL:   cfg.Linking.AccountViewTTL,
		},
	)

	// Initialize handlers
	authHandler := httphandlers.NewAuthHandler(linkingService)
	linkingHandler := httphandlers.NewLinkingHandler(linkingService)

	return &Dependencies{
		Records:        recordStore,
		AuthHandler:    authHandler,
		LinkingHandler: linkingHandler,
		Linking:        linkingService,
	}, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.Records != nil {
		if err := d.Records.Close(); err != nil {
			log.Printf("Error closing record store: %v", err)
		}
	}
}
