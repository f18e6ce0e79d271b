// Package history 维护工作区快照的有界、可分支撤销历史。
// 编辑以高频细粒度变更（拖拽增量、逐键输入）到达，管理器在空闲窗口把一阵
// 连续变更合并为一条历史记录，而不是在变更处节流。
package history

import (
	"reflect"
	"sync"
	"time"

	"github.com/bep/debounce"

	"github.com/ByLCY/vitrine/design"
)

const (
	// DefaultLimit 是单个会话保留的最大历史深度，超出时最旧的记录静默淘汰。
	DefaultLimit = 120
	// DefaultDelay 是提交前的空闲等待窗口。
	DefaultDelay = 100 * time.Millisecond
)

// RestoreFunc 在撤销/重做时被调用，负责让存储采用快照的项目/画布/选中状态。
type RestoreFunc func(design.WorkspaceState)

// Option 在创建 Manager 时修改其配置。
type Option func(*Manager)

// WithLimit 设置历史深度上限。
func WithLimit(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.limit = n
		}
	}
}

// WithDelay 设置空闲提交窗口，测试用小值加速。
func WithDelay(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.delay = d
		}
	}
}

// WithRestore 注册撤销/重做时应用快照的回调。
func WithRestore(fn RestoreFunc) Option {
	return func(m *Manager) { m.restore = fn }
}

// Manager 持有 present 快照与有界的 past/future 栈。
// 所有进出 Manager 的快照都是深拷贝：对活动状态的后续修改不可能串改历史条目。
type Manager struct {
	mu        sync.Mutex
	present   design.WorkspaceState
	past      []design.WorkspaceState
	future    []design.WorkspaceState
	pending   *design.WorkspaceState
	replaying bool

	limit     int
	delay     time.Duration
	restore   RestoreFunc
	debounced func(func())
}

// NewManager 以 initial 为 present 创建管理器。
func NewManager(initial design.WorkspaceState, opts ...Option) *Manager {
	m := &Manager{
		present: initial.Clone(),
		limit:   DefaultLimit,
		delay:   DefaultDelay,
	}
	for _, o := range opts {
		o(m)
	}
	m.debounced = debounce.New(m.delay)
	return m
}

// Observe 接收存储的一次变更。快照与 present 结构相等时为空操作；
// 否则（重新）armed 空闲定时器，窗口内没有后续变更时才真正提交。
// 撤销/重做的回放变更只折叠进 present，绝不产生新的历史记录。
func (m *Manager) Observe(snapshot design.WorkspaceState) {
	snap := snapshot.Clone()

	m.mu.Lock()
	if m.replaying {
		m.present = snap
		m.pending = nil
		m.mu.Unlock()
		return
	}
	if reflect.DeepEqual(snap, m.present) {
		m.pending = nil
		m.mu.Unlock()
		return
	}
	m.pending = &snap
	m.mu.Unlock()

	m.debounced(m.commit)
}

// Flush 立即提交尚在等待空闲窗口的快照。
func (m *Manager) Flush() { m.commit() }

func (m *Manager) commit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commitLocked()
}

func (m *Manager) commitLocked() {
	if m.pending == nil {
		return
	}
	snap := *m.pending
	m.pending = nil
	if reflect.DeepEqual(snap, m.present) {
		return
	}
	m.past = append(m.past, m.present)
	if len(m.past) > m.limit {
		m.past = m.past[1:]
	}
	m.present = snap
	m.future = nil
}

// Undo 回退一步并触发恢复回调；past 为空时返回 false 且 present 不变。
// 调用前未到期的待提交快照会先行提交，保证最近一阵编辑本身可被撤销。
func (m *Manager) Undo() bool {
	m.mu.Lock()
	m.commitLocked()
	if len(m.past) == 0 {
		m.mu.Unlock()
		return false
	}
	prev := m.present
	m.present = m.past[len(m.past)-1]
	m.past = m.past[:len(m.past)-1]
	m.future = append([]design.WorkspaceState{prev}, m.future...)
	m.applyLocked()
	return true
}

// Redo 前进一步，与 Undo 对称；future 为空时返回 false。
func (m *Manager) Redo() bool {
	m.mu.Lock()
	m.commitLocked()
	if len(m.future) == 0 {
		m.mu.Unlock()
		return false
	}
	prev := m.present
	m.present = m.future[0]
	m.future = m.future[1:]
	m.past = append(m.past, prev)
	if len(m.past) > m.limit {
		m.past = m.past[1:]
	}
	m.applyLocked()
	return true
}

// applyLocked 在持锁状态下进入回放模式并调用恢复回调，回调期间触发的
// Observe 会被折叠进 present。调用方负责已持有 m.mu；返回时锁已释放。
func (m *Manager) applyLocked() {
	snap := m.present.Clone()
	fn := m.restore
	m.replaying = true
	m.mu.Unlock()

	if fn != nil {
		fn(snap)
	}

	m.mu.Lock()
	m.replaying = false
	m.mu.Unlock()
}

// CanUndo 报告是否存在可撤销的历史。
func (m *Manager) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.past) > 0 || (m.pending != nil && !reflect.DeepEqual(*m.pending, m.present))
}

// CanRedo 报告是否存在可重做的历史。与 Redo 的先提交语义保持一致：
// 存在未提交的新编辑时返回 false——该编辑一旦提交就会丢弃重做分支。
func (m *Manager) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pending != nil && !reflect.DeepEqual(*m.pending, m.present) {
		return false
	}
	return len(m.future) > 0
}

// Present 返回当前快照的深拷贝。
func (m *Manager) Present() design.WorkspaceState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.present.Clone()
}

// Depth 返回 (past, future) 栈深度，供状态栏类消费方展示。
func (m *Manager) Depth() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.past), len(m.future)
}
