package main

import (
	"context"

	"growyourdough/api"
	"growyourdough/cmd"
	"growyourdough/internal/logger"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
)

type lambdaHandler struct {
	ginLambda *ginadapter.GinLambda
}

func newLambdaHandler(apiHandler *api.ApiHandler) lambdaHandler {
	// the engine holds no per request state, so one is built per cold start
	return lambdaHandler{
		ginLambda: ginadapter.New(apiHandler.InitializeRouterEngine()),
	}
}

func (m lambdaHandler) Handler(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	logger.FromContext(ctx).Debugw("lambda request", "path", req.Path, "method", req.HTTPMethod)
	return m.ginLambda.ProxyWithContext(ctx, req)
}

func main() {
	log := logger.FromContext(context.Background())
	apiHandler, err := cmd.InitializeDependencies()
	if err != nil {
		log.Fatalw("failed to initialize dependencies", "error", err)
	}
	defer cmd.CloseDependencies(apiHandler)

	lambda.Start(newLambdaHandler(apiHandler).Handler)
}
