package cron

import (
	"context"

	"github.com/fittrack/fittrack-api/internal/jobs"
	"github.com/fittrack/fittrack-api/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

func StartNotificationCronJobs(notificationService *services.NotificationService, suggestionJob *jobs.DailySuggestionJob) {
	c := cron.New()

	// Purge expired notifications nightly
	c.AddFunc("0 3 * * *", func() {
		err := notificationService.PurgeExpired(context.Background())
		if err != nil {
			logrus.WithError(err).Error("PurgeExpired failed")
		}
	})

	// Daily workout suggestions every morning
	c.AddFunc("0 9 * * *", func() {
		err := suggestionJob.Run(context.Background())
		if err != nil {
			logrus.WithError(err).Error("DailySuggestionJob failed")
		}
	})

	c.Start()
}
