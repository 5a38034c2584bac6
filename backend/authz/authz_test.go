package authz

import (
	"routinet/backend/models"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanCreateCourse(t *testing.T) {
	assert.True(t, CanCreateCourse(models.RoleInstructor))
	assert.False(t, CanCreateCourse(models.RoleLearner))
	assert.False(t, CanCreateCourse(models.RoleAdministrator))
}

func TestCourseOwnershipRules(t *testing.T) {
	course := models.Course{OwnerID: 7}

	assert.True(t, CanUpdateCourse(7, &course))
	assert.False(t, CanUpdateCourse(8, &course))

	// Delete: owner or administrator.
	assert.True(t, CanDeleteCourse(7, models.RoleInstructor, &course))
	assert.False(t, CanDeleteCourse(8, models.RoleInstructor, &course))
	assert.True(t, CanDeleteCourse(8, models.RoleAdministrator, &course))

	assert.True(t, CanManageCourseContent(7, &course))
	assert.False(t, CanManageCourseContent(8, &course))
	assert.True(t, CanGrade(7, &course))
	assert.False(t, CanGrade(8, &course))
}

func TestCanEnroll(t *testing.T) {
	assert.True(t, CanEnroll(models.RoleLearner))
	assert.False(t, CanEnroll(models.RoleInstructor))
	assert.False(t, CanEnroll(models.RoleAdministrator))
}

func TestCanSubmit(t *testing.T) {
	assert.True(t, CanSubmit(models.RoleLearner, true))
	assert.False(t, CanSubmit(models.RoleLearner, false))
	assert.False(t, CanSubmit(models.RoleInstructor, true))
}

func TestCanManageEvents(t *testing.T) {
	assert.True(t, CanManageEvents(models.RoleAdministrator))
	assert.False(t, CanManageEvents(models.RoleInstructor))
	assert.False(t, CanManageEvents(models.RoleLearner))
}
