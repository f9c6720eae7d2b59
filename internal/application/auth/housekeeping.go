package auth

import (
	"context"
	"time"

	"github.com/jhoicas/taller-api/internal/domain/repository"
	"github.com/jhoicas/taller-api/pkg/logger"
)

// HousekeepingService purga periódicamente la lista de revocación: un jti cuyo token ya
// expiró no necesita seguir revocado.
type HousekeepingService struct {
	revoked  repository.RevokedTokenRepository
	log      *logger.Logger
	interval time.Duration
	now      func() time.Time

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService construye el servicio. interval <= 0 usa una hora.
func NewHousekeepingService(revoked repository.RevokedTokenRepository, log *logger.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &HousekeepingService{
		revoked:  revoked,
		log:      log,
		interval: interval,
		now:      time.Now,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start lanza el worker en segundo plano. Llamar Stop para detenerlo.
func (s *HousekeepingService) Start() {
	go s.run()
	s.log.Info().Dur("interval", s.interval).Msg("housekeeping iniciado")
}

// Stop detiene el worker y espera a que termine la limpieza en curso.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.log.Info().Msg("housekeeping detenido")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.RunOnce(context.Background())
	for {
		select {
		case <-ticker.C:
			s.RunOnce(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// RunOnce ejecuta una pasada de limpieza.
func (s *HousekeepingService) RunOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	n, err := s.revoked.DeleteExpired(ctx, s.now())
	if err != nil {
		s.log.Error().Err(err).Msg("housekeeping: purgar tokens revocados")
		return
	}
	if n > 0 {
		s.log.Debug().Int64("deleted", n).Msg("housekeeping: tokens revocados purgados")
	}
}
