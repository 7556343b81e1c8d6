package application

import "folio/internal/ports"

// Services bundles the wired application services
type Services struct {
	Configs   *ConfigStore
	Sync      *Synchronizer
	Stats     *StatsEngine
	Mutator   *Mutator
	Creator   *ProjectCreator
	Assembler *Assembler
	Workspace *Workspace
}

// NewServices wires every service over one storage; cache may be nil
func NewServices(storage ports.Storage, index ports.ProjectIndex, cache ports.WordCountCache, opts Options) *Services {
	opts = opts.withDefaults()
	configs := NewConfigStore(storage, opts)
	synchronizer := NewSynchronizer(storage, configs, opts)
	stats := NewStatsEngine(storage, configs, cache, opts)
	mutator := NewMutator(storage, configs, stats, cache, opts)
	return &Services{
		Configs:   configs,
		Sync:      synchronizer,
		Stats:     stats,
		Mutator:   mutator,
		Creator:   NewProjectCreator(storage, configs, synchronizer, opts),
		Assembler: NewAssembler(storage, configs, opts),
		Workspace: NewWorkspace(index, configs, mutator),
	}
}
