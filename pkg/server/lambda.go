package server

import (
	"context"

	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"

	"user-registry-api/internal/config"
	"user-registry-api/internal/logging"
	"user-registry-api/pkg/lambda"
)

// HandlerSelector picks the operation a Lambda binary serves
type HandlerSelector func(c *Container) lambda.HandlerFunc

// StartLambda builds the container once at cold start and serves the
// selected handler for every invocation. It does not return.
func StartLambda(selector HandlerSelector) {
	cfg, err := config.GetOptimizedConfig()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	logging.Setup(cfg.Log)

	container, err := NewContainer(context.Background(), cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize container")
	}

	logrus.WithField("function", config.GetServerlessConfig().FunctionName).Info("Lambda handler ready")
	awslambda.Start(lambda.Adapt(selector(container)))
}
