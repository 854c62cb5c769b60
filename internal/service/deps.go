package service

import (
	"time"

	"github.com/sirupsen/logrus"

	"todotrek/internal/repository"
)

// Deps carries the collaborators shared by the resource services.
type Deps struct {
	Store   *repository.Store
	Graph   *RelationshipManager
	Owners  *OwnershipResolver
	Views   *Projector
	Timeout time.Duration
	Log     *logrus.Entry
}

// NewDeps wires the core components over one store.
func NewDeps(store *repository.Store, timeout time.Duration, log *logrus.Entry) Deps {
	return Deps{
		Store:   store,
		Graph:   NewRelationshipManager(store, log),
		Owners:  NewOwnershipResolver(store),
		Views:   NewProjector(store),
		Timeout: timeout,
		Log:     log.WithField("component", "service"),
	}
}
