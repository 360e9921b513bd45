// @title           courselab API
// @version         1.0
// @description     Course platform backend with billing, staff seats and course progress.
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:4000
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"courselab_backend/internal/app"

	_ "courselab_backend/docs"
)

func main() {
	app.Run()
}
