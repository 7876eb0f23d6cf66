package scene

import (
	"testing"

	"cogentcore.org/core/math32"
)

func TestMeshDestroyReleasesResourcesOnce(t *testing.T) {
	t.Parallel()

	dev := NewDevice()
	mesh := &Mesh{Geometry: dev.NewPlane(1, 1, 1, 1), Material: dev.NewMaterial(ShaderImage)}
	if dev.Live() != 2 {
		t.Fatalf("live = %d, want 2", dev.Live())
	}
	mesh.Destroy()
	mesh.Destroy()
	if dev.Live() != 0 {
		t.Fatalf("live after destroy = %d, want 0", dev.Live())
	}
	if !mesh.Destroyed() {
		t.Fatal("mesh not marked destroyed")
	}
}

func TestSetGeometryDisposesPrevious(t *testing.T) {
	t.Parallel()

	dev := NewDevice()
	old := dev.NewPlane(1, 1, 1, 1)
	mesh := &Mesh{Geometry: old, Material: dev.NewMaterial(ShaderTitle)}
	mesh.SetGeometry(dev.NewPlane(2, 2, 1, 1))
	if !old.Disposed() {
		t.Fatal("previous geometry not disposed")
	}
	if dev.Geometries() != 1 {
		t.Fatalf("geometries = %d, want 1", dev.Geometries())
	}
}

func TestWorldPositionComposesParents(t *testing.T) {
	t.Parallel()

	group := NewGroup("titles")
	group.Position = math32.Vec3(10, 20, 0)
	group.Scale = math32.Vec3(2, 2, 1)
	child := NewGroup("title")
	child.Position = math32.Vec3(1, -1, 0)
	group.Add(child)

	got := child.WorldPosition()
	want := math32.Vec3(12, 18, 0)
	if got != want {
		t.Fatalf("world position = %v, want %v", got, want)
	}
	if s := child.WorldScale(); s.X != 2 || s.Y != 2 {
		t.Fatalf("world scale = %v, want 2", s)
	}
}

func TestAddReparents(t *testing.T) {
	t.Parallel()

	a, b := NewGroup("a"), NewGroup("b")
	child := NewGroup("child")
	a.Add(child)
	b.Add(child)
	if len(a.Children()) != 0 || child.Parent() != b {
		t.Fatalf("child not moved: a=%d parent=%v", len(a.Children()), child.Parent())
	}
}

func TestSceneMeshesSkipsDestroyed(t *testing.T) {
	t.Parallel()

	dev := NewDevice()
	s := NewScene()
	live := NewMeshNode("live", &Mesh{Geometry: dev.NewPlane(1, 1, 1, 1), Material: dev.NewMaterial(ShaderImage)})
	dead := NewMeshNode("dead", &Mesh{Geometry: dev.NewPlane(1, 1, 1, 1), Material: dev.NewMaterial(ShaderImage)})
	group := NewGroup("group")
	group.Add(dead)
	s.Add(live)
	s.Add(group)
	dead.Mesh.Destroy()

	meshes := s.Meshes()
	if len(meshes) != 1 || meshes[0] != live {
		t.Fatalf("meshes = %v, want [live]", meshes)
	}
	if !s.Contains(group) || s.Len() != 2 {
		t.Fatalf("scene contents wrong: len = %d", s.Len())
	}
	s.Remove(group)
	if s.Contains(group) {
		t.Fatal("group still attached")
	}
}

func TestSizesFollowCamera(t *testing.T) {
	t.Parallel()

	cam := NewCamera(1)
	var sizes Sizes
	sizes.Update(Dimensions{Width: 1600, Height: 800}, 3, 10, cam)

	if sizes.PixelRatio != 2 {
		t.Fatalf("pixel ratio = %v, want 2", sizes.PixelRatio)
	}
	if sizes.ScaleRatio != 1 {
		t.Fatalf("scale ratio = %v, want 1", sizes.ScaleRatio)
	}
	wantH := 2 * math32.Tan(math32.DegToRad(22.5)) * 300
	if math32.Abs(sizes.Environment.Height-wantH) > 1e-3 {
		t.Fatalf("environment height = %v, want %v", sizes.Environment.Height, wantH)
	}
	if math32.Abs(sizes.Environment.Width-2*wantH) > 1e-3 {
		t.Fatalf("environment width = %v, want %v", sizes.Environment.Width, 2*wantH)
	}
	if math32.Abs(sizes.UnitHeight()-wantH*1.33) > 1e-3 {
		t.Fatalf("unit height = %v", sizes.UnitHeight())
	}
}

func TestCameraProjectsEnvironmentEdges(t *testing.T) {
	t.Parallel()

	cam := NewCamera(2)
	env := cam.Environment()
	screen := Dimensions{Width: 1000, Height: 500}

	center := cam.ToScreen(math32.Vec3(0, 0, 0), screen)
	if center.X != 500 || center.Y != 250 {
		t.Fatalf("origin = %v, want (500, 250)", center)
	}
	top := cam.ToScreen(math32.Vec3(-env.Width/2, env.Height/2, 0), screen)
	if math32.Abs(top.X) > 1 || math32.Abs(top.Y) > 1 {
		t.Fatalf("top-left corner = %v, want (0, 0)", top)
	}
}

func TestScreenBoxMatchesPlaneSize(t *testing.T) {
	t.Parallel()

	cam := NewCamera(2)
	env := cam.Environment()
	screen := Dimensions{Width: 1000, Height: 500}
	dev := NewDevice()
	node := NewMeshNode("title", &Mesh{Geometry: dev.NewPlane(env.Width/2, env.Height/4, 1, 1), Material: dev.NewMaterial(ShaderTitle)})

	center, w, h := cam.ScreenBox(node.WorldBounds(), screen)
	if math32.Abs(w-500) > 1 || math32.Abs(h-125) > 1 {
		t.Fatalf("box = %vx%v, want 500x125", w, h)
	}
	if center.X != 500 || center.Y != 250 {
		t.Fatalf("center = %v, want (500, 250)", center)
	}
}
