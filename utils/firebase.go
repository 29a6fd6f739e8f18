package utils

import (
	"context"
	"log"

	"masterbook/config"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// FCMClient delivers push notifications; nil until FirebaseInit runs.
var FCMClient *messaging.Client

// FirebaseInit builds the messaging client from the configured service
// account file. Pushes are the only Firebase product in use.
func FirebaseInit() {
	ctx := context.Background()
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(config.AppConfig.FirebaseCredentialsFile))
	if err != nil {
		log.Fatalf("firebase: cannot load credentials from %q: %v", config.AppConfig.FirebaseCredentialsFile, err)
	}
	if FCMClient, err = app.Messaging(ctx); err != nil {
		log.Fatalf("firebase: messaging client: %v", err)
	}
}
