// ABOUTME: Person/user endpoint synchronizer
// ABOUTME: Mirrors person, maxuser, group memberships, and the group definitions embedded in them
package sync

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/gogreenverze/MaximoWin-sub000/db"
	"github.com/gogreenverze/MaximoWin-sub000/models"
	"github.com/gogreenverze/MaximoWin-sub000/oslc"
)

type PersonSyncer struct {
	base
}

func NewPersonSyncer(store *sql.DB, client *oslc.Client, logger *zap.Logger) *PersonSyncer {
	return &PersonSyncer{base: newBase(store, client, logger)}
}

func (s *PersonSyncer) Name() string     { return EndpointPersons }
func (s *PersonSyncer) SiteScoped() bool { return false }

func (s *PersonSyncer) Sync(ctx context.Context, scope string, mode models.Mode) (models.SyncResult, error) {
	started := s.now()
	result := models.SyncResult{
		Endpoint:    EndpointPersons,
		ChildCounts: map[string]int{},
	}
	defer s.finish(&result, started)

	if mode == models.ModeFull {
		if err := s.clearTables(db.ClearPersons); err != nil {
			result.Status = models.StatusError
			result.Message = err.Error()
			return result, err
		}
	}

	where := oslc.NewWhere().Eq("status", "ACTIVE")

	req := oslc.PageRequest{
		Resource: resourcePerUser,
		Select: oslc.Select("personid", "firstname", "lastname", "displayname", "status",
			"primaryemail", "primaryphone", "locationorg", "locationsite", "timezone",
			"statusdate", "_rowstamp",
			oslc.Nested("maxuser")),
		Where:    where.String(),
		PageSize: 200,
	}

	stamp := models.SyncTimestamp(s.now())
	skipped := 0

	_, err := s.client.ForEachPage(ctx, req, func(records []oslc.Record) error {
		for _, rec := range records {
			person, groups := mapPerson(rec)
			if person.PersonID == "" {
				skipped++
				continue
			}
			err := s.upsertRecord(func(tx *sql.Tx) error {
				if err := db.UpsertPerson(tx, person, stamp, models.StatusSuccess); err != nil {
					return err
				}
				// Group definitions ride along inside the membership
				// rows; writing them after the memberships fills in any
				// placeholder rows created above.
				for i := range groups {
					if err := db.UpsertMaxGroup(tx, &groups[i], stamp, models.StatusSuccess); err != nil {
						return err
					}
				}
				return nil
			})
			if err != nil {
				s.logger.Warn("skipping person",
					zap.String("personid", person.PersonID), zap.Error(err))
				skipped++
				continue
			}
			result.RecordCount++
			if person.MaxUser != nil {
				result.ChildCounts["maxuser"]++
				result.ChildCounts["groupuser"] += len(person.MaxUser.GroupUsers)
			}
			result.ChildCounts["maxgroup"] += len(groups)
		}
		return nil
	})
	if err != nil {
		result.Status = models.StatusError
		result.Message = err.Error()
		return result, err
	}

	result.Status = outcome(skipped)
	return result, nil
}

// mapPerson flattens one MXAPIPERUSER record into a Person (with maxuser
// and memberships) plus whatever group definitions were embedded alongside.
func mapPerson(rec oslc.Record) (*models.Person, []models.MaxGroup) {
	person := &models.Person{
		PersonID:     rec.String("personid"),
		FirstName:    rec.String("firstname"),
		LastName:     rec.String("lastname"),
		DisplayName:  rec.String("displayname"),
		Status:       rec.String("status"),
		PrimaryEmail: rec.String("primaryemail"),
		PrimaryPhone: rec.String("primaryphone"),
		LocationOrg:  rec.String("locationorg"),
		LocationSite: rec.String("locationsite"),
		TimeZone:     rec.String("timezone"),
		StatusDate:   rec.String("statusdate"),
		RowStamp:     rec.String("_rowstamp"),
	}

	var groups []models.MaxGroup
	seenGroups := map[string]bool{}

	userRecs := rec.Records("maxuser")
	if len(userRecs) == 0 {
		return person, nil
	}

	userRec := userRecs[0]
	maxUser := &models.MaxUser{
		UserID:        userRec.String("userid"),
		PersonID:      person.PersonID,
		Status:        userRec.String("status"),
		DefSite:       userRec.String("defsite"),
		InsertSite:    userRec.String("insertsite"),
		QueryWithSite: userRec.Bool("querywithsite"),
	}

	for _, guRec := range userRec.Records("groupuser") {
		groupName := guRec.String("groupname")
		if groupName == "" {
			continue
		}
		maxUser.GroupUsers = append(maxUser.GroupUsers, models.GroupUser{
			GroupName: groupName,
		})

		for _, mgRec := range guRec.Records("maxgroup") {
			name := mgRec.String("groupname")
			if name == "" || seenGroups[name] {
				continue
			}
			seenGroups[name] = true
			groups = append(groups, models.MaxGroup{
				GroupName:    name,
				Description:  mgRec.String("description"),
				AuthAllSites: mgRec.Bool("authallsites"),
				AuthAllGLs:   mgRec.Bool("authallgls"),
				Independent:  mgRec.Bool("independent"),
				RowStamp:     mgRec.String("_rowstamp"),
			})
		}
	}

	person.MaxUser = maxUser
	return person, groups
}
