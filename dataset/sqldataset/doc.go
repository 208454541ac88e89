/*
Package sqldataset reads datasets from and writes them onto tables of SQL
databases, with SQLite3 and PostgreSQL support.

A dataset table has the following columns:
  - "id": an INTEGER primary key identifying the record
  - a column per feature of the schema, named after it: REAL for numeric
    features, TEXT for categorical features and BOOLEAN (INTEGER on
    SQLite3) for boolean features
  - a column for the outcome named after the label given to the Store
    methods, with the same type as boolean features

None of the columns accepts NULL values.
*/
package sqldataset
