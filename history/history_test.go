package history

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/ByLCY/vitrine/design"
)

// snap 构造一个内容随标签变化的最小快照，足以驱动结构相等比较。
func snap(label string) design.WorkspaceState {
	return design.WorkspaceState{
		Projects: []design.ProjectRecord{{
			ID:   "p1",
			Name: label,
			State: design.ProjectDesignState{
				Canvases:        []design.ProjectCanvasRecord{{ID: "c1", Name: label}},
				CurrentCanvasID: "c1",
			},
		}},
		CurrentProjectID: "p1",
		CurrentCanvasID:  "c1",
	}
}

// TestUndoRedoRoundTrip 验证 N 次提交后连续撤销回到初始状态、再连续重做回到末态。
func TestUndoRedoRoundTrip(t *testing.T) {
	s0 := snap("v0")
	m := NewManager(s0)

	const n = 4
	for i := 1; i <= n; i++ {
		m.Observe(snap(fmt.Sprintf("v%d", i)))
		m.Flush()
	}
	if past, _ := m.Depth(); past != n {
		t.Fatalf("提交 %d 次后 past 深度应为 %d，实际 %d", n, n, past)
	}

	for i := 0; i < n; i++ {
		if !m.Undo() {
			t.Fatalf("第 %d 次撤销不应失败", i+1)
		}
	}
	if !reflect.DeepEqual(m.Present(), s0) {
		t.Fatalf("连续撤销后应回到初始状态，实际 %+v", m.Present())
	}
	if m.Undo() {
		t.Fatalf("past 为空时撤销应返回 false")
	}

	for i := 0; i < n; i++ {
		if !m.Redo() {
			t.Fatalf("第 %d 次重做不应失败", i+1)
		}
	}
	if !reflect.DeepEqual(m.Present(), snap("v4")) {
		t.Fatalf("连续重做后应回到末态，实际 %+v", m.Present())
	}
	if m.Redo() {
		t.Fatalf("future 为空时重做应返回 false")
	}
}

// TestObserveNoOp 验证与 present 结构相等的快照是空操作，且会取消待提交的变更。
func TestObserveNoOp(t *testing.T) {
	s0 := snap("v0")
	m := NewManager(s0)

	m.Observe(snap("v0"))
	m.Flush()
	if past, _ := m.Depth(); past != 0 {
		t.Fatalf("相等快照不应产生历史记录，past=%d", past)
	}

	// 一阵编辑最终回到原状：待提交快照被取消，Flush 后不留痕迹。
	m.Observe(snap("draft"))
	m.Observe(snap("v0"))
	m.Flush()
	if past, _ := m.Depth(); past != 0 {
		t.Fatalf("回到原状的编辑不应产生历史记录，past=%d", past)
	}
}

// TestDebounceCoalescing 验证空闲窗口内的连续变更合并为一条历史记录。
func TestDebounceCoalescing(t *testing.T) {
	m := NewManager(snap("v0"), WithDelay(20*time.Millisecond))

	m.Observe(snap("a"))
	m.Observe(snap("b"))
	m.Observe(snap("c"))
	time.Sleep(100 * time.Millisecond)

	past, _ := m.Depth()
	if past != 1 {
		t.Fatalf("一阵连续变更应合并为一条记录，past=%d", past)
	}
	if !reflect.DeepEqual(m.Present(), snap("c")) {
		t.Fatalf("present 应为最后一次变更，实际 %+v", m.Present())
	}
}

// TestUndoFlushesPending 验证撤销前先提交未到期的快照，最近一阵编辑本身可被撤销。
func TestUndoFlushesPending(t *testing.T) {
	s0 := snap("v0")
	m := NewManager(s0, WithDelay(time.Hour)) // 窗口长到测试内绝不触发

	m.Observe(snap("typing"))
	if !m.CanUndo() {
		t.Fatalf("存在待提交快照时 CanUndo 应为 true")
	}
	if !m.Undo() {
		t.Fatalf("待提交快照应先提交再撤销")
	}
	if !reflect.DeepEqual(m.Present(), s0) {
		t.Fatalf("撤销后应回到编辑前状态，实际 %+v", m.Present())
	}
	if !m.CanRedo() {
		t.Fatalf("撤销后应可重做")
	}
}

// TestNewEditClearsFuture 验证撤销后的新编辑丢弃重做分支。
func TestNewEditClearsFuture(t *testing.T) {
	m := NewManager(snap("v0"))
	m.Observe(snap("v1"))
	m.Flush()
	m.Observe(snap("v2"))
	m.Flush()

	m.Undo()
	if !m.CanRedo() {
		t.Fatalf("撤销后应存在重做分支")
	}

	m.Observe(snap("fork"))
	m.Flush()
	if m.CanRedo() {
		t.Fatalf("新编辑应丢弃重做分支")
	}
	if m.Redo() {
		t.Fatalf("重做分支已丢弃，Redo 应返回 false")
	}
}

// TestCanRedoWithPendingEdit 验证 CanRedo 与 Redo 的先提交语义一致：
// 撤销后若存在未提交的新编辑，CanRedo 应为 false，而不是先报可重做再静默丢弃分支。
func TestCanRedoWithPendingEdit(t *testing.T) {
	m := NewManager(snap("v0"), WithDelay(time.Hour))
	m.Observe(snap("v1"))
	m.Flush()

	m.Undo()
	if !m.CanRedo() {
		t.Fatalf("撤销后应可重做")
	}

	m.Observe(snap("fork"))
	if m.CanRedo() {
		t.Fatalf("存在未提交的新编辑时 CanRedo 应为 false")
	}
	if m.Redo() {
		t.Fatalf("新编辑提交后重做分支已丢弃，Redo 应返回 false")
	}

	// 回到原状的待提交编辑不影响重做分支。
	m2 := NewManager(snap("v0"), WithDelay(time.Hour))
	m2.Observe(snap("v1"))
	m2.Flush()
	m2.Undo()
	m2.Observe(snap("v0"))
	if !m2.CanRedo() {
		t.Fatalf("与 present 相等的待提交快照不应禁用重做")
	}
}

// TestLimitEvictsOldest 验证超出深度上限时最旧的记录被静默淘汰。
func TestLimitEvictsOldest(t *testing.T) {
	const limit = 5
	m := NewManager(snap("v0"), WithLimit(limit))
	for i := 1; i <= limit+3; i++ {
		m.Observe(snap(fmt.Sprintf("v%d", i)))
		m.Flush()
	}

	past, _ := m.Depth()
	if past != limit {
		t.Fatalf("past 深度应封顶在 %d，实际 %d", limit, past)
	}
	for i := 0; i < limit; i++ {
		if !m.Undo() {
			t.Fatalf("上限内的第 %d 次撤销不应失败", i+1)
		}
	}
	if m.Undo() {
		t.Fatalf("淘汰后的记录不应再可撤销")
	}
	// 最旧可达状态应是淘汰后窗口的起点，而不是初始状态。
	if !reflect.DeepEqual(m.Present(), snap("v3")) {
		t.Fatalf("最旧可达状态应为 v3，实际 %+v", m.Present())
	}
}

// TestReplayDoesNotPollute 验证恢复回调期间回流的 Observe 不产生新的历史记录。
func TestReplayDoesNotPollute(t *testing.T) {
	var m *Manager
	m = NewManager(snap("v0"), WithRestore(func(s design.WorkspaceState) {
		// 模拟存储采用快照后把变更事件回流给管理器。
		m.Observe(s)
	}))
	m.Observe(snap("v1"))
	m.Flush()
	m.Observe(snap("v2"))
	m.Flush()

	m.Undo()
	m.Flush()
	past, future := m.Depth()
	if past != 1 || future != 1 {
		t.Fatalf("回放回流不应改变栈深度: past=%d future=%d", past, future)
	}
	if !reflect.DeepEqual(m.Present(), snap("v1")) {
		t.Fatalf("撤销后 present 应为 v1，实际 %+v", m.Present())
	}

	m.Redo()
	m.Flush()
	if !reflect.DeepEqual(m.Present(), snap("v2")) {
		t.Fatalf("重做后 present 应为 v2，实际 %+v", m.Present())
	}
}

// TestRestoreReceivesCopy 验证恢复回调拿到的是深拷贝，修改它不影响管理器内部状态。
func TestRestoreReceivesCopy(t *testing.T) {
	m := NewManager(snap("v0"), WithRestore(func(s design.WorkspaceState) {
		s.Projects[0].Name = "篡改"
	}))
	m.Observe(snap("v1"))
	m.Flush()

	m.Undo()
	if got := m.Present().Projects[0].Name; got != "v0" {
		t.Fatalf("修改回调入参污染了内部快照: %q", got)
	}
}

// TestPresentIsolation 验证 Present 返回的副本与内部状态隔离。
func TestPresentIsolation(t *testing.T) {
	m := NewManager(snap("v0"))
	got := m.Present()
	got.Projects[0].Name = "篡改"
	if m.Present().Projects[0].Name != "v0" {
		t.Fatalf("Present 副本的修改泄漏进了管理器")
	}
}
