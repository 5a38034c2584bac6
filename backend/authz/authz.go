// Package authz is the authorization gate: given the acting user's role and
// the target entity, each function answers allow/deny. Every denial is
// terminal for the request and rendered as 403 by the controllers.
package authz

import "routinet/backend/models"

// CanCreateCourse allows instructors only.
func CanCreateCourse(role models.Role) bool {
	return role == models.RoleInstructor
}

// CanUpdateCourse allows the owning instructor only.
func CanUpdateCourse(userID uint, course *models.Course) bool {
	return course.OwnerID == userID
}

// CanDeleteCourse allows the owning instructor or an administrator.
func CanDeleteCourse(userID uint, role models.Role, course *models.Course) bool {
	if course.OwnerID == userID {
		return true
	}
	return role == models.RoleAdministrator
}

// CanManageCourseContent gates module, resource and assignment creation
// under a course: owner only.
func CanManageCourseContent(userID uint, course *models.Course) bool {
	return course.OwnerID == userID
}

// CanEnroll allows learners only.
func CanEnroll(role models.Role) bool {
	return role == models.RoleLearner
}

// CanSubmit allows a learner holding an active enrollment in the
// assignment's course. The enrollment lookup belongs to the caller; the gate
// decides on the evidence.
func CanSubmit(role models.Role, activelyEnrolled bool) bool {
	return role == models.RoleLearner && activelyEnrolled
}

// CanGrade allows the instructor owning the submission's parent course.
func CanGrade(userID uint, course *models.Course) bool {
	return course.OwnerID == userID
}

// CanManageEvents gates calendar event create/update/delete: admin only.
func CanManageEvents(role models.Role) bool {
	return role == models.RoleAdministrator
}
