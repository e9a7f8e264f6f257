package ecs

import "errors"

var (
	// ErrNoEntities is returned by Query.Single when nothing matches.
	ErrNoEntities = errors.New("ecs: no matching entities")
	// ErrMultipleEntities is returned by Query.Single when more than one entity matches.
	ErrMultipleEntities = errors.New("ecs: more than one matching entity")
)
