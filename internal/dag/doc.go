// Package dag is a small directed graph of string IDs. It is used to reject
// cyclic package sets and to order a recipe's closure for planning.
package dag
