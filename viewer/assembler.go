package viewer

import (
	"fmt"

	"github.com/spaghettifunk/trainyard/engine/async"
	"github.com/spaghettifunk/trainyard/engine/core"
	"github.com/spaghettifunk/trainyard/engine/math"
	"github.com/spaghettifunk/trainyard/engine/scene"
)

// MaterialApplicator gives every mesh under a model root a material built
// from the shared colour map.
type MaterialApplicator interface {
	ApplyToModel(root *scene.Node, colourMap *scene.Texture) (int, error)
}

// ModelLoad is one model to place in the group.
type ModelLoad struct {
	Name   string
	Future *async.Future[*scene.Node]
}

/**
 * @brief Waits for a texture and a set of models, then textures every mesh
 * and places the models in the group, each offset from the one before it.
 * Assembly runs exactly once, after every load settled.
 */
type Assembler struct {
	Group *scene.Node
	// Offset of each model after the first, relative to its predecessor.
	Offset math.Vec3

	materials MaterialApplicator
	tracker   *async.Tracker
	report    async.Report
	placed    []*scene.Node
	onReady   []func(async.Report)
}

func NewAssembler(group *scene.Node, offset math.Vec3, materials MaterialApplicator) *Assembler {
	return &Assembler{
		Group:     group,
		Offset:    offset,
		materials: materials,
	}
}

// OnReady registers fn to run after assembly. Registering after assembly
// runs fn immediately.
func (a *Assembler) OnReady(fn func(async.Report)) {
	if a.Ready() {
		fn(a.report)
		return
	}
	a.onReady = append(a.onReady, fn)
}

// Assemble starts waiting on the loads. It can only be called once.
func (a *Assembler) Assemble(textureName string, texture *async.Future[*scene.Texture], models ...ModelLoad) error {
	if a.tracker != nil {
		return fmt.Errorf("assembler for '%s' already started", a.Group.Name)
	}
	items := make([]async.Named, 0, len(models)+1)
	items = append(items, async.Named{Name: textureName, Item: texture})
	for _, m := range models {
		items = append(items, async.Named{Name: m.Name, Item: m.Future})
	}
	a.tracker = async.All(func(report async.Report) {
		a.assemble(report, texture, models)
	}, items...)
	return nil
}

// Ready reports whether assembly has run.
func (a *Assembler) Ready() bool {
	return a.tracker != nil && a.tracker.Fired()
}

func (a *Assembler) Outstanding() int {
	if a.tracker == nil {
		return 0
	}
	return a.tracker.Outstanding()
}

func (a *Assembler) Report() async.Report {
	return a.report
}

// Placed returns the model roots added to the group, in load order.
func (a *Assembler) Placed() []*scene.Node {
	return a.placed
}

func (a *Assembler) assemble(report async.Report, texture *async.Future[*scene.Texture], models []ModelLoad) {
	// a failed texture leaves the meshes untextured
	colourMap, err, _ := texture.Result()
	if err != nil {
		colourMap = nil
	}

	for i, m := range models {
		root, err, _ := m.Future.Result()
		if err != nil || root == nil {
			continue
		}
		if _, err := a.materials.ApplyToModel(root, colourMap); err != nil {
			core.LogError("failed to apply materials to '%s': %s", m.Name, err)
		}
		root.Transform.SetPosition(a.Offset.MulScalar(float32(i)))
		a.Group.Add(root)
		a.placed = append(a.placed, root)
	}

	a.report = report
	if report.Complete() {
		core.LogInfo("'%s' assembled from %d assets.", a.Group.Name, len(report.Loaded))
	} else {
		core.LogWarn("'%s' assembled with %d of %d assets: %s", a.Group.Name,
			len(report.Loaded), len(report.Loaded)+len(report.Failed), report.Err())
	}

	for _, fn := range a.onReady {
		fn(report)
	}
	a.onReady = nil
}
