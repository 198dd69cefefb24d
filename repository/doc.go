// Package repository provides a generic Bun repository for CRUD access and
// the member search engine: optional predicate composition over a
// member/team left join, offset pagination, and count query elision.
package repository
