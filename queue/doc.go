/*
Package queue defines tasks to be performed to grow a tree
as well as an interface for a Queue to manage them.

It also provides an in-memory, first-in first-out implementation
of the Queue interface.
*/
package queue
