package service

import (
	"context"

	"contentagent.app/models"
)

// ContentGenerator defines the generation pipeline contract consumed by the
// HTTP server and the CLI entry point
type ContentGenerator interface {
	Generate(ctx context.Context, topic string) (*models.ScriptPackage, string, error)
}
