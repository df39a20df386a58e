package assets

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/picanha/dash/internal/domain"
)

// DirectoryFetcher defines the subset of the Coinbase client used here.
type DirectoryFetcher interface {
	FetchCryptoCurrencies(ctx context.Context) ([]domain.Asset, error)
	FetchFiatCurrencies(ctx context.Context) ([]domain.Asset, error)
}

// Service loads and caches the merged currency directory. Both source
// endpoints are queried concurrently; one succeeding is enough, only both
// failing is an error.
type Service struct {
	fetcher DirectoryFetcher

	mu          sync.RWMutex
	assets      []domain.Asset
	lastUpdated time.Time
}

// NewService creates a new directory service.
func NewService(fetcher DirectoryFetcher) *Service {
	return &Service{fetcher: fetcher}
}

// Ensure loads the directory unless a non-empty list is already present.
// Safe to call from every entry point; repeat calls are no-ops.
func (s *Service) Ensure(ctx context.Context) error {
	s.mu.RLock()
	loaded := len(s.assets) > 0
	s.mu.RUnlock()
	if loaded {
		return nil
	}

	merged, err := s.fetchMerged(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if len(s.assets) == 0 {
		s.assets = merged
		s.lastUpdated = time.Now()
	}
	s.mu.Unlock()
	return nil
}

// Assets returns the loaded directory, sorted by code. The returned slice
// is a copy and safe to hold.
func (s *Service) Assets() []domain.Asset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.assets)
}

// LastUpdated returns when the directory was loaded, zero if never.
func (s *Service) LastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdated
}

func (s *Service) fetchMerged(ctx context.Context) ([]domain.Asset, error) {
	type fetchResult struct {
		assets []domain.Asset
		err    error
	}

	cryptoCh := make(chan fetchResult, 1)
	fiatCh := make(chan fetchResult, 1)

	go func() {
		a, err := s.fetcher.FetchCryptoCurrencies(ctx)
		cryptoCh <- fetchResult{a, err}
	}()
	go func() {
		a, err := s.fetcher.FetchFiatCurrencies(ctx)
		fiatCh <- fetchResult{a, err}
	}()

	crypto := <-cryptoCh
	fiat := <-fiatCh

	if crypto.err != nil && fiat.err != nil {
		return nil, fmt.Errorf("loading currency directory: %w", crypto.err)
	}
	if crypto.err != nil {
		slog.Warn("crypto currency fetch failed, continuing fiat-only", "error", crypto.err)
	}
	if fiat.err != nil {
		slog.Warn("fiat currency fetch failed, continuing crypto-only", "error", fiat.err)
	}

	merged := append(crypto.assets, fiat.assets...)
	slices.SortFunc(merged, func(a, b domain.Asset) int {
		return strings.Compare(a.Code, b.Code)
	})
	return merged, nil
}
