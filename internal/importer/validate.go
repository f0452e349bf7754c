package importer

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/ganttboard/internal/dateutil"
	"github.com/alexanderramin/ganttboard/internal/domain"
)

// ValidateDocument checks the rules the JSON schema cannot express. It
// returns every problem found.
func ValidateDocument(doc *Document) []error {
	var errs []error

	refs := make(map[string]ItemImport, len(doc.Items))
	for i, it := range doc.Items {
		if it.Ref == "" {
			errs = append(errs, fmt.Errorf("items[%d].ref is required", i))
			continue
		}
		if _, dup := refs[it.Ref]; dup {
			errs = append(errs, fmt.Errorf("items[%d]: duplicate ref %q", i, it.Ref))
			continue
		}
		refs[it.Ref] = it
	}

	for i, it := range doc.Items {
		errs = append(errs, validateItem(fmt.Sprintf("items[%d]", i), it)...)

		if it.ParentRef != "" {
			parent, ok := refs[it.ParentRef]
			switch {
			case it.ParentRef == it.Ref:
				errs = append(errs, fmt.Errorf("items[%d].parent_ref: item cannot be its own parent", i))
			case !ok:
				errs = append(errs, fmt.Errorf("items[%d].parent_ref: unknown ref %q", i, it.ParentRef))
			case parent.ParentRef != "":
				errs = append(errs, fmt.Errorf("items[%d].parent_ref: %q is itself a child; only one level of nesting is supported", i, it.ParentRef))
			}
		}
		for _, dep := range it.DependsOn {
			if _, ok := refs[dep]; !ok {
				errs = append(errs, fmt.Errorf("items[%d].depends_on: unknown ref %q", i, dep))
			}
		}
	}
	return errs
}

func validateItem(path string, it ItemImport) []error {
	var errs []error
	if it.Name == "" {
		errs = append(errs, fmt.Errorf("%s.name is required", path))
	}
	if it.Type != "" && !domain.ValidItemTypes[it.Type] {
		errs = append(errs, fmt.Errorf("%s.type: invalid value %q", path, it.Type))
	}
	if it.Status != "" && !domain.ValidStatuses[it.Status] {
		errs = append(errs, fmt.Errorf("%s.status: invalid value %q", path, it.Status))
	}
	if it.Priority != "" && !domain.ValidPriorities[it.Priority] {
		errs = append(errs, fmt.Errorf("%s.priority: invalid value %q", path, it.Priority))
	}
	if it.Approval != "" && !domain.ValidApprovals[it.Approval] {
		errs = append(errs, fmt.Errorf("%s.approval: invalid value %q", path, it.Approval))
	}
	if it.Progress != nil && (*it.Progress < 0 || *it.Progress > 100) {
		errs = append(errs, fmt.Errorf("%s.progress: %d is outside 0-100", path, *it.Progress))
	}

	start, startErr := dateutil.ParseTimestamp(it.StartDate)
	if startErr != nil {
		errs = append(errs, fmt.Errorf("%s.start_date: invalid date %q", path, it.StartDate))
	}
	end, endErr := dateutil.ParseTimestamp(it.EndDate)
	if endErr != nil {
		errs = append(errs, fmt.Errorf("%s.end_date: invalid date %q", path, it.EndDate))
	}
	if startErr == nil && endErr == nil && end.Before(start) {
		errs = append(errs, fmt.Errorf("%s.end_date %q is before start_date %q", path, it.EndDate, it.StartDate))
	}
	return errs
}

// JoinErrors folds a validation error list into one ValidationError.
func JoinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return domain.NewValidationError("import",
		"%d problem(s):\n  - %s", len(errs), strings.Join(msgs, "\n  - "))
}
