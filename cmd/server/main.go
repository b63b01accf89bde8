package main

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"farmadvisor/config"
	"farmadvisor/database"
	"farmadvisor/entities"
	"farmadvisor/router"

	activityCtrlImp "farmadvisor/pkg/activity/controllerImp"
	activityRepoImp "farmadvisor/pkg/activity/repositoryImp"
	activitySvcImp "farmadvisor/pkg/activity/serviceImp"
	advisoryCtrlImp "farmadvisor/pkg/advisory/controllerImp"
	advisoryRepoImp "farmadvisor/pkg/advisory/repositoryImp"
	advisorySvcImp "farmadvisor/pkg/advisory/serviceImp"
	healthCtrlImp "farmadvisor/pkg/health/controllerImp"
	"farmadvisor/pkg/knowledge"
	knowledgeCtrlImp "farmadvisor/pkg/knowledge/controllerImp"
	knowledgeRepoImp "farmadvisor/pkg/knowledge/repositoryImp"
	reminderCtrlImp "farmadvisor/pkg/reminder/controllerImp"
	reminderRepoImp "farmadvisor/pkg/reminder/repositoryImp"
	reminderSvcImp "farmadvisor/pkg/reminder/serviceImp"
	userCtrlImp "farmadvisor/pkg/user/controllerImp"
	userRepoImp "farmadvisor/pkg/user/repositoryImp"
)

// logNotifier stands in for an SMS/push gateway.
type logNotifier struct{}

func (logNotifier) Push(n *entities.Notification) error {
	log.Printf("[notify] user=%s type=%s priority=%s: %s", n.UserID, n.Type, n.Priority, n.Title)
	return nil
}

func main() {
	cfg := config.Load()

	if loc, err := time.LoadLocation(cfg.Timezone); err == nil {
		time.Local = loc
	} else {
		log.Printf("[main] bad TZ %q, keeping system default: %v", cfg.Timezone, err)
	}

	db := database.OpenSQLite(cfg.DBPath)

	articleRepo := knowledgeRepoImp.New(db)
	engine := knowledge.New(articleRepo)
	if cfg.KnowledgeCSV != "" || cfg.KnowledgeXLSX != "" {
		if err := engine.LoadOverlays(cfg.KnowledgeCSV, cfg.KnowledgeXLSX); err != nil {
			log.Printf("[main] knowledge overlays: %v", err)
		}
	}

	userRepo := userRepoImp.New(db)
	advisoryRepo := advisoryRepoImp.New(db)
	reminderRepo := reminderRepoImp.New(db)
	notificationRepo := reminderRepoImp.NewNotifications(db)
	activityRepo := activityRepoImp.New(db)

	advisorySvc := advisorySvcImp.New(advisoryRepo, engine, userRepo)
	reminderSvc := reminderSvcImp.New(reminderRepo, notificationRepo, logNotifier{}, cfg.SweepInterval)
	activitySvc := activitySvcImp.New(activityRepo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reminderSvc.Start(ctx)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())

	router.New(e,
		advisoryCtrlImp.New(advisorySvc, engine, userRepo),
		reminderCtrlImp.New(reminderSvc),
		knowledgeCtrlImp.New(engine, articleRepo, cfg.IngestDomains, cfg.IngestMaxBytes),
		userCtrlImp.New(userRepo),
		activityCtrlImp.New(activitySvc),
		healthCtrlImp.NewHealthCtrl(db),
	)

	log.Fatal(e.Start(":" + cfg.Port))
}
