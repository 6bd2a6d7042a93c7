/*
	Package statefile is the access broker for treant state records:
	it knows the magic filenames, loads and saves the records,
	and owns the advisory lock that guards read-modify-write cycles.

	Functions here return objects from the tapi package.

	Reads go through an fs.FS handle (typically `os.DirFS("/")` outside
	of tests, with de-rooted paths).  Writes go through the os package
	against absolute paths, because replacing a record atomically
	requires rename(2), which io/fs does not model.

	The on-disk record is always the source of truth.  Nothing in this
	package caches: a load reflects the record at the time of the call,
	and a save replaces the record atomically, so concurrent readers
	observe either the prior record or the new one, never a torn write.
*/
package statefile
