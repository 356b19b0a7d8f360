package subjectinfo

import (
	"fmt"
	"sort"
	"strings"

	"github.com/carbocation/twinstudy/table"
	"gopkg.in/guregu/null.v3"
)

// FamilyAnomaly describes a family whose shape breaks the pair assumption of
// the deceased-sibling flag. Such families are still flagged, one value per
// subject, but they deserve a human look.
type FamilyAnomaly struct {
	Case     string
	Members  []string
	Deceased []string
}

func (f FamilyAnomaly) String() string {
	return fmt.Sprintf("case %s has %d member(s) [%s] with %d deceased [%s]", f.Case, len(f.Members), strings.Join(f.Members, " "), len(f.Deceased), strings.Join(f.Deceased, " "))
}

// IsDeceased reports whether a deceased-flag cell means "deceased".
func IsDeceased(v null.String) bool {
	f, ok := table.Float(v)
	return ok && f == 1
}

// DeceasedSiblings groups the administrative table by family and returns,
// for every subject, whether another member of the same family (with a
// different subject ID) is deceased. Exactly one value is produced per row,
// regardless of family size. Rows without a family ID are never grouped.
// Families with other than two members, or with more than one deceased
// member, are returned as anomalies.
func DeceasedSiblings(admin *table.Table, subjectCol, caseCol, deceasedCol string) ([]bool, []FamilyAnomaly, error) {
	if err := admin.Require(subjectCol, caseCol, deceasedCol); err != nil {
		return nil, nil, err
	}
	idCol, _ := admin.Index(subjectCol)
	famCol, _ := admin.Index(caseCol)
	decCol, _ := admin.Index(deceasedCol)

	families := make(map[string][]int)
	order := make([]string, 0)
	for i := 0; i < admin.Len(); i++ {
		fam, ok := table.NormalizeKey(admin.Row(i)[famCol])
		if !ok {
			continue
		}
		if _, seen := families[fam]; !seen {
			order = append(order, fam)
		}
		families[fam] = append(families[fam], i)
	}

	out := make([]bool, admin.Len())
	anomalies := make([]FamilyAnomaly, 0)

	for _, fam := range order {
		rows := families[fam]

		members := make([]string, 0, len(rows))
		deceased := make(map[string]struct{})
		for _, i := range rows {
			id, _ := table.NormalizeKey(admin.Row(i)[idCol])
			members = append(members, id)
			if IsDeceased(admin.Row(i)[decCol]) {
				deceased[id] = struct{}{}
			}
		}

		for k, i := range rows {
			for dead := range deceased {
				if dead != members[k] {
					out[i] = true
					break
				}
			}
		}

		if len(rows) != 2 || len(deceased) > 1 {
			deadList := make([]string, 0, len(deceased))
			for id := range deceased {
				deadList = append(deadList, id)
			}
			sort.Strings(deadList)
			anomalies = append(anomalies, FamilyAnomaly{
				Case:     fam,
				Members:  members,
				Deceased: deadList,
			})
		}
	}

	return out, anomalies, nil
}

// AddDeceasedSibling appends the deceased-sibling column to admin. Subjects
// with a deceased sibling get 1; everyone else is left missing, to be filled
// with 0 once all tables are merged.
func AddDeceasedSibling(admin *table.Table, cfg Config) ([]FamilyAnomaly, error) {
	flags, anomalies, err := DeceasedSiblings(admin, cfg.SubjectIDColumn, cfg.CaseColumn, cfg.DeceasedColumn)
	if err != nil {
		return nil, err
	}

	values := make([]null.String, len(flags))
	for i, flagged := range flags {
		if flagged {
			values[i] = null.StringFrom("1")
		}
	}

	if err := admin.AddColumn(cfg.DeceasedSibColumn, values); err != nil {
		return nil, err
	}

	return anomalies, nil
}
