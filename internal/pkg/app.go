package pkg

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orderledger/internal/app/config"
	"orderledger/internal/app/handler"
	"orderledger/internal/app/ledger"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 15 * time.Second

type Application struct {
	Config     *config.Config
	Router     *gin.Engine
	Handler    *handler.Handler
	Ledger     *ledger.Ledger
	closeStore func() error
}

func NewApp(c *config.Config, r *gin.Engine, h *handler.Handler, l *ledger.Ledger, closeStore func() error) *Application {
	return &Application{
		Config:     c,
		Router:     r,
		Handler:    h,
		Ledger:     l,
		closeStore: closeStore,
	}
}

// RunApp serves until SIGINT or SIGTERM, then drains requests and writes
// the last ledger snapshot before closing the store.
func (a *Application) RunApp() {
	logrus.Info("Server start up")

	a.Handler.RegisterRoutes(a.Router)

	serverAddress := fmt.Sprintf("%s:%d", a.Config.ServiceHost, a.Config.ServicePort)
	srv := &http.Server{
		Addr:              serverAddress,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logrus.Infof("Starting server on %s", serverAddress)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logrus.Info("Shutdown signal received")
	case err := <-errCh:
		if err != nil {
			logrus.Errorf("server error: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("server shutdown: %v", err)
	}
	if err := a.Ledger.Close(shutdownCtx); err != nil {
		logrus.Errorf("ledger close: %v", err)
	}
	if a.closeStore != nil {
		if err := a.closeStore(); err != nil {
			logrus.Errorf("store close: %v", err)
		}
	}
}
