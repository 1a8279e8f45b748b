package docs

import "github.com/swaggo/swag"

// @title           JEERA Task Sync API
// @version         1.0
// @description     Realtime collaborative task boards: project rooms, task mutations, audit history

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token

// @tag.name Users
// @tag.description Registration and authentication

// @tag.name Projects
// @tag.description Project rooms, membership and role transitions

// Register swagger info
func SwaggerInfo() *swag.Spec {
	spec, _ := swag.GetSwagger(swag.Name).(*swag.Spec)
	return spec
}
