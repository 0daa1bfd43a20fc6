package fakeapi

import "github.com/Undertaker4032/secret-lab-app/internal/model"

// dataset is the seeded directory content. It is read-only after seed.
type dataset struct {
	clusters        []model.Cluster
	departments     []model.Department
	divisions       []model.Division
	positions       []model.Position
	clearanceLevels []model.ClearanceLevel
	documentTypes   []model.DocumentType
	researchStatus  []model.ResearchStatus

	employees []model.Employee
	documents []model.Documentation
	research  []model.ResearchObject
}

func seed() *dataset {
	d := &dataset{
		clusters: []model.Cluster{
			{ID: 1, Name: "Северный"},
			{ID: 2, Name: "Южный"},
		},
		departments: []model.Department{
			{ID: 1, Name: "Исследований"},
			{ID: 2, Name: "Безопасности"},
		},
		divisions: []model.Division{
			{ID: 1, Name: "Аналитики"},
			{ID: 2, Name: "Лаборатория"},
			{ID: 3, Name: "Охрана"},
		},
		positions: []model.Position{
			{ID: 1, Name: "Научный сотрудник"},
			{ID: 2, Name: "Руководитель"},
			{ID: 3, Name: "Охранник"},
		},
		clearanceLevels: []model.ClearanceLevel{
			{ID: 1, Name: "Базовый", Number: 1},
			{ID: 2, Name: "Конфиденциально", Number: 2},
			{ID: 3, Name: "Секретно", Number: 3},
		},
		documentTypes: []model.DocumentType{
			{ID: 1, Name: "Инструкция"},
			{ID: 2, Name: "Отчёт"},
		},
		researchStatus: []model.ResearchStatus{
			{ID: 1, Name: "Планирование"},
			{ID: 2, Name: "В работе"},
			{ID: 3, Name: "Завершено"},
		},
	}

	emp := func(id int, name string, active bool, level, cluster, dept, div, pos int) model.Employee {
		return model.Employee{
			ID:             id,
			Name:           name,
			IsActive:       active,
			ClearanceLevel: &d.clearanceLevels[level-1],
			Cluster:        &d.clusters[cluster-1],
			Department:     &d.departments[dept-1],
			Division:       &d.divisions[div-1],
			Position:       &d.positions[pos-1],
		}
	}
	d.employees = []model.Employee{
		emp(1, "Иванов Иван", true, 3, 1, 1, 2, 2),
		emp(2, "Петрова Анна", true, 2, 1, 1, 1, 1),
		emp(3, "Сидоров Пётр", false, 1, 2, 2, 3, 3),
		emp(4, "Кузнецова Мария", true, 1, 2, 1, 2, 1),
		emp(5, "Смирнов Олег", true, 2, 2, 2, 3, 3),
	}

	d.documents = []model.Documentation{
		d.document(1, "Правила допуска", 1, "Порядок получения пропуска.", 5, 1, "2024-01-10", "2024-02-01"),
		d.document(2, "Отчёт о испытаниях", 2, "Итоги серии опытов.", 1, 3, "2024-03-15", "2024-03-20"),
		d.document(3, "Инструкция по эвакуации", 1, "Маршруты и точки сбора.", 2, 1, "2023-11-05", "2024-01-12"),
	}

	d.research = []model.ResearchObject{
		d.researchObject(1, "Образец А", "Изучение свойств образца.", 1, []int{1, 2}, 2, 3, "2024-01-20", "2024-04-02"),
		d.researchObject(2, "Каталогизация архива", "Систематизация старых отчётов.", 2, []int{2, 4}, 1, 1, "2024-02-11", "2024-02-11"),
		d.researchObject(3, "Протокол защиты", "Проверка периметра.", 5, []int{5}, 3, 2, "2023-09-01", "2023-12-30"),
	}
	return d
}

func (d *dataset) document(id int, title string, typ int, content string, author, clearance int, created, updated string) model.Documentation {
	return model.Documentation{
		ID:                    id,
		Title:                 title,
		Type:                  typ,
		TypeName:              d.documentTypes[typ-1].Name,
		Content:               content,
		Author:                author,
		AuthorName:            d.employees[author-1].Name,
		CreatedDate:           created,
		UpdatedDate:           updated,
		RequiredClearance:     clearance,
		RequiredClearanceName: d.clearanceLevels[clearance-1].Name,
	}
}

func (d *dataset) researchObject(id int, title, description string, lead int, team []int, status, clearance int, created, updated string) model.ResearchObject {
	members := make([]string, 0, len(team))
	for _, m := range team {
		members = append(members, d.employees[m-1].Name)
	}
	return model.ResearchObject{
		ID:                    id,
		Title:                 title,
		Description:           description,
		Lead:                  lead,
		LeadName:              d.employees[lead-1].Name,
		Team:                  team,
		TeamMembers:           members,
		Status:                status,
		StatusName:            d.researchStatus[status-1].Name,
		RequiredClearance:     clearance,
		RequiredClearanceName: d.clearanceLevels[clearance-1].Name,
		CreatedDate:           created,
		UpdatedDate:           updated,
	}
}

func (d *dataset) employee(id int) (model.Employee, bool) {
	for _, e := range d.employees {
		if e.ID == id {
			return e, true
		}
	}
	return model.Employee{}, false
}

func (d *dataset) divisionOf(employeeID int) string {
	e, ok := d.employee(employeeID)
	if !ok || e.Division == nil {
		return ""
	}
	return e.Division.Name
}

// clearanceNumber maps a clearance level ID to its ordering number.
func (d *dataset) clearanceNumber(id int) int {
	for _, l := range d.clearanceLevels {
		if l.ID == id {
			return l.Number
		}
	}
	return 0
}

func (d *dataset) researchSummary(r model.ResearchObject) model.Research {
	return model.Research{
		ID:                    r.ID,
		Title:                 r.Title,
		Lead:                  r.Lead,
		LeadName:              r.LeadName,
		Status:                r.Status,
		StatusName:            r.StatusName,
		RequiredClearance:     r.RequiredClearance,
		RequiredClearanceName: r.RequiredClearanceName,
		CreatedDate:           r.CreatedDate,
		UpdatedDate:           r.UpdatedDate,
	}
}
