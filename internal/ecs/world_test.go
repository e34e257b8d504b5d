package ecs

import "testing"

// stub component used only in tests
type testComp struct{ val int }

func (testComp) Type() ComponentType { return 1 }

type otherComp struct{}

func (otherComp) Type() ComponentType { return 2 }

func TestCreateEntity(t *testing.T) {
	w := NewWorld()
	id := w.CreateEntity()
	if id == NilEntity {
		t.Fatal("expected non-nil entity ID")
	}
	if !w.Alive(id) {
		t.Fatal("expected entity to be alive after creation")
	}
}

func TestAddAndGetComponent(t *testing.T) {
	w := NewWorld()
	id := w.CreateEntity()
	w.Add(id, testComp{val: 42})

	c := w.Get(id, ComponentType(1))
	if c == nil {
		t.Fatal("expected component, got nil")
	}
	tc, ok := c.(testComp)
	if !ok {
		t.Fatal("wrong component type returned")
	}
	if tc.val != 42 {
		t.Fatalf("expected val=42, got %d", tc.val)
	}
}

func TestDestroyEntityRemovesComponents(t *testing.T) {
	w := NewWorld()
	id := w.CreateEntity()
	w.Add(id, testComp{val: 7})
	w.DestroyEntity(id)

	if w.Alive(id) {
		t.Fatal("entity should not be alive after DestroyEntity")
	}
	if w.Get(id, ComponentType(1)) != nil {
		t.Fatal("component should be gone after DestroyEntity")
	}
}

func TestQueryFiltersCorrectly(t *testing.T) {
	w := NewWorld()

	// entity with both A and B
	both := w.CreateEntity()
	w.Add(both, testComp{})
	w.Add(both, otherComp{})

	// entity with only A
	onlyA := w.CreateEntity()
	w.Add(onlyA, testComp{})

	results := w.Query(ComponentType(1), ComponentType(2))
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0] != both {
		t.Fatalf("expected entity %v in results, got %v", both, results[0])
	}
}

func TestRemoveComponent(t *testing.T) {
	w := NewWorld()
	id := w.CreateEntity()
	w.Add(id, testComp{val: 5})

	w.Remove(id, ComponentType(1))

	if w.Get(id, ComponentType(1)) != nil {
		t.Fatal("component should be nil after Remove")
	}
}

func TestRemoveNonexistentIsNoop(t *testing.T) {
	w := NewWorld()
	id := w.CreateEntity()
	// Removing a component type that was never added must not panic.
	w.Remove(id, ComponentType(99))
}

func TestHasComponent(t *testing.T) {
	w := NewWorld()
	id := w.CreateEntity()

	if w.Has(id, ComponentType(1)) {
		t.Fatal("Has should return false before Add")
	}
	w.Add(id, testComp{val: 1})
	if !w.Has(id, ComponentType(1)) {
		t.Fatal("Has should return true after Add")
	}
	w.Remove(id, ComponentType(1))
	if w.Has(id, ComponentType(1)) {
		t.Fatal("Has should return false after Remove")
	}
}

func TestQueryExcludesDeadEntities(t *testing.T) {
	w := NewWorld()
	alive := w.CreateEntity()
	w.Add(alive, testComp{})

	dead := w.CreateEntity()
	w.Add(dead, testComp{})
	w.DestroyEntity(dead)

	results := w.Query(ComponentType(1))
	for _, id := range results {
		if id == dead {
			t.Fatal("Query returned a destroyed entity")
		}
	}
	if len(results) != 1 || results[0] != alive {
		t.Fatalf("expected only the alive entity; got %v", results)
	}
}

func TestQueryIsOrdered(t *testing.T) {
	w := NewWorld()
	var ids []EntityID
	for i := 0; i < 20; i++ {
		id := w.CreateEntity()
		w.Add(id, testComp{val: i})
		ids = append(ids, id)
	}
	results := w.Query(ComponentType(1))
	if len(results) != len(ids) {
		t.Fatalf("expected %d results, got %d", len(ids), len(results))
	}
	for i := range ids {
		if results[i] != ids[i] {
			t.Fatalf("results[%d] = %v; want %v", i, results[i], ids[i])
		}
	}
}

func TestAddChildAndParent(t *testing.T) {
	w := NewWorld()
	owner := w.CreateEntity()
	child := w.CreateEntity()
	w.AddChild(owner, child)

	if w.Parent(child) != owner {
		t.Fatalf("Parent(child) = %v; want %v", w.Parent(child), owner)
	}
	kids := w.Children(owner)
	if len(kids) != 1 || kids[0] != child {
		t.Fatalf("Children(owner) = %v; want [%v]", kids, child)
	}
}

func TestDestroyEntityDestroysChildren(t *testing.T) {
	w := NewWorld()
	owner := w.CreateEntity()
	child := w.CreateEntity()
	grandchild := w.CreateEntity()
	w.AddChild(owner, child)
	w.AddChild(child, grandchild)
	w.Add(grandchild, testComp{val: 3})

	w.DestroyEntity(owner)

	if w.Alive(child) || w.Alive(grandchild) {
		t.Fatal("children should be destroyed with their parent")
	}
	if w.Get(grandchild, ComponentType(1)) != nil {
		t.Fatal("grandchild components should be gone")
	}
}

func TestDestroyChildDetachesFromParent(t *testing.T) {
	w := NewWorld()
	owner := w.CreateEntity()
	child := w.CreateEntity()
	w.AddChild(owner, child)

	w.DestroyEntity(child)

	if !w.Alive(owner) {
		t.Fatal("destroying a child must not destroy its parent")
	}
	if kids := w.Children(owner); len(kids) != 0 {
		t.Fatalf("expected no children after destroy, got %v", kids)
	}
	if w.Parent(child) != NilEntity {
		t.Fatal("destroyed child should have no parent")
	}
}

func TestAddChildIgnoresDeadEntities(t *testing.T) {
	w := NewWorld()
	owner := w.CreateEntity()
	dead := w.CreateEntity()
	w.DestroyEntity(dead)

	w.AddChild(owner, dead)
	if kids := w.Children(owner); len(kids) != 0 {
		t.Fatalf("dead entity should not be attached, got %v", kids)
	}
}
