package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/akarsenev/parkslot/api"
	"github.com/akarsenev/parkslot/config"
	"github.com/akarsenev/parkslot/internal/service/auth"
	"github.com/akarsenev/parkslot/internal/service/booking"
	"github.com/akarsenev/parkslot/internal/service/reports"
	"github.com/akarsenev/parkslot/internal/service/slots"
	"github.com/gin-gonic/gin"
)

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(
	ctx context.Context,
	cfg *config.Config,
	slotSvc slots.SlotUseCase,
	bookingSvc booking.BookingUseCase,
	reportSvc reports.ReportUseCase,
	authSvc auth.AuthUseCase,
) error {
	router := gin.Default()
	admin := api.RequireAdmin(authSvc)

	api.NewSlotHandler(slotSvc).Register(router.Group("/slots"), admin)
	api.NewBookingHandler(bookingSvc).Register(router.Group("/bookings"))
	api.NewReportHandler(reportSvc).Register(router.Group("/reports"), admin)
	api.NewAuthHandler(authSvc).Register(router.Group("/admin"))

	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}
