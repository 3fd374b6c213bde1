// Package session manages bookable sessions and their participant rosters.
//
// The service is a thin layer over the store for CRUD. The roster
// operations carry the behavior: Participate verifies the user exists, then
// relies on the store's atomic AddParticipant for session existence and the
// no-duplicate invariant; NoLongerParticipate relies on RemoveParticipant,
// which only removes a present member and preserves the order of the rest.
package session
