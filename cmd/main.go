package main

import (
	"github.com/ShewonGun/FarmerBackup/internal/app"
	"github.com/ShewonGun/FarmerBackup/internal/config"
	"github.com/gin-gonic/gin"
)

func main() {
	gin.SetMode(gin.ReleaseMode)
	cfg := config.MustLoad()
	app.Run(cfg)
}
