package firestore

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// FirestoreClient wraps the generated Firestore SDK client.
type FirestoreClient struct {
	client *firestore.Client
}

// NewFirestoreClient creates a Firestore client for the given project. On
// Cloud Run the default service credentials are used; locally a credentials
// file is tried first with a fallback to default authentication.
func NewFirestoreClient(ctx context.Context, projectID string, logger *zap.SugaredLogger) (*FirestoreClient, error) {
	var client *firestore.Client
	var err error

	isCloudRun := os.Getenv("K_SERVICE") != "" || os.Getenv("PORT") != ""

	if isCloudRun {
		logger.Infow("☁️ Cloud Run environment detected, using default credentials")
		client, err = firestore.NewClient(ctx, projectID)
		if err != nil {
			return nil, fmt.Errorf("failed to create Firestore client with default auth: %w", err)
		}
	} else {
		credentialsFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
		if credentialsFile == "" {
			credentialsFile = "montapulse-firestore-key.json"
		}

		if _, fileErr := os.Stat(credentialsFile); fileErr != nil {
			logger.Warnw("credentials file not found, trying default authentication",
				"file", credentialsFile)
			client, err = firestore.NewClient(ctx, projectID)
		} else {
			logger.Infow("📄 using credentials file", "file", credentialsFile)
			client, err = firestore.NewClient(ctx, projectID, option.WithCredentialsFile(credentialsFile))
		}

		if err != nil {
			return nil, fmt.Errorf("failed to create Firestore client: %w", err)
		}
	}

	logger.Infow("✅ Firestore client initialized", "project", projectID)
	return &FirestoreClient{client: client}, nil
}

func (fc *FirestoreClient) Close() error {
	return fc.client.Close()
}

func (fc *FirestoreClient) GetClient() *firestore.Client {
	return fc.client
}
