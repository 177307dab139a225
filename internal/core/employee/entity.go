package employee

// 観測されている部署です。値自体は自由な文字列として扱います。
const (
	DepartmentTech      = "Tech"
	DepartmentAnalytics = "Analytics"
)

// 観測されている職位です。
const (
	PositionJunior = "Junior"
	PositionMedior = "Medior"
	PositionSenior = "Senior"
)

// Employee は社員エンティティです。ID 以外はすべて表示用のプレーンテキストです。
type Employee struct {
	ID               string `json:"id"`
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	DateOfBirth      string `json:"dateOfBirth"`
	DateOfEmployment string `json:"dateOfEmployment"`
	PhoneNumber      string `json:"phoneNumber"`
	Email            string `json:"email"`
	Department       string `json:"department"`
	Position         string `json:"position"`
}

// FullName は表示用の氏名を返します。
func (e Employee) FullName() string {
	switch {
	case e.FirstName == "":
		return e.LastName
	case e.LastName == "":
		return e.FirstName
	default:
		return e.FirstName + " " + e.LastName
	}
}
