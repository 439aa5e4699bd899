// Command search-users lists users with an exact name on AWS Lambda.
package main

import (
	"user-registry-api/pkg/lambda"
	"user-registry-api/pkg/server"
)

func main() {
	server.StartLambda(func(c *server.Container) lambda.HandlerFunc {
		return c.UserHandler.HandleSearch
	})
}
